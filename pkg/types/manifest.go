package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Descriptor file names, one per package kind.
const (
	ManifestFileName = "manifest.json"
	PlatformFileName = "platform.json"
)

// Descriptor errors.
var (
	ErrVersionEmpty = errors.New("descriptor version must not be empty")
)

// Manifest is the descriptor for an integration package (manifest.json in
// the package directory).
type Manifest struct {
	Name     string   `json:"name,omitempty"`
	Version  string   `json:"version"`
	Requires []string `json:"requires,omitempty"`
}

// Validate checks that the manifest carries the fields the indexer needs.
func (m Manifest) Validate() error {
	if m.Version == "" {
		return ErrVersionEmpty
	}
	return nil
}

// Platform is the descriptor for a platform package (platform.json in the
// package directory).
type Platform struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version"`
}

// Validate checks that the platform descriptor carries the fields the
// indexer needs.
func (p Platform) Validate() error {
	if p.Version == "" {
		return ErrVersionEmpty
	}
	return nil
}

// LoadManifest reads and validates a manifest.json file.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// LoadPlatform reads and validates a platform.json file.
func LoadPlatform(path string) (Platform, error) {
	var p Platform
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read platform descriptor: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse platform descriptor %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("platform descriptor %s: %w", path, err)
	}
	return p, nil
}
