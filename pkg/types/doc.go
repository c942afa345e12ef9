// Package types defines the configuration, package descriptors, index
// document, and standard errors shared across shelf.
package types
