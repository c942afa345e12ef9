// Package sources manages the core repository checkouts whose versions are
// tracked in the index.
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgeyard/shelf/internal/gitops"
	"github.com/forgeyard/shelf/pkg/types"
)

// ErrVersionUnknown is returned when a checkout carries neither a VERSION
// file nor a root manifest.json with a version field.
var ErrVersionUnknown = errors.New("source version unknown")

// Status describes one source checkout after Ensure.
type Status struct {
	Name    string
	Path    string
	Version string
	Cloned  bool // true when Ensure had to clone the checkout
}

// Ensure makes sure the source checkout exists, cloning it when a URL is
// configured, and resolves its version.
func Ensure(ctx context.Context, src types.Source) (Status, error) {
	st := Status{Name: src.Name, Path: src.Path}

	if _, err := os.Stat(src.Path); os.IsNotExist(err) {
		if src.URL == "" {
			return st, fmt.Errorf("source %s: checkout %s missing and no url configured", src.Name, src.Path)
		}
		if err := gitops.Clone(ctx, src.URL, src.Path); err != nil {
			return st, fmt.Errorf("source %s: %w", src.Name, err)
		}
		st.Cloned = true
	}

	version, err := Version(src)
	if err != nil {
		return st, err
	}
	st.Version = version
	return st, nil
}

// Version resolves the version of a source checkout: a VERSION file at the
// checkout root wins, then the version field of a root manifest.json.
func Version(src types.Source) (string, error) {
	if data, err := os.ReadFile(filepath.Join(src.Path, "VERSION")); err == nil {
		v := strings.TrimSpace(string(data))
		if v != "" {
			return v, nil
		}
	}

	data, err := os.ReadFile(filepath.Join(src.Path, types.ManifestFileName))
	if err != nil {
		return "", fmt.Errorf("source %s: %w", src.Name, ErrVersionUnknown)
	}
	var m struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &m); err != nil || m.Version == "" {
		return "", fmt.Errorf("source %s: %w", src.Name, ErrVersionUnknown)
	}
	return m.Version, nil
}
