// Package shelf exposes module-level metadata.
package shelf

// Version is the shelf release version.
const Version = "0.3.0"
