package types

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	content := `{"name": "weather", "version": "1.2.0", "requires": ["requests"]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.Version != "1.2.0" {
		t.Fatalf("expected version 1.2.0, got %q", m.Version)
	}
	if m.Name != "weather" {
		t.Fatalf("expected name weather, got %q", m.Name)
	}
}

func TestLoadManifestRejectsMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(`{"name": "weather"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadManifest(path)
	if !errors.Is(err, ErrVersionEmpty) {
		t.Fatalf("expected ErrVersionEmpty, got %v", err)
	}
}

func TestLoadPlatform(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PlatformFileName)
	if err := os.WriteFile(path, []byte(`{"version": "0.3.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPlatform(path)
	if err != nil {
		t.Fatalf("load platform descriptor: %v", err)
	}
	if p.Version != "0.3.0" {
		t.Fatalf("expected version 0.3.0, got %q", p.Version)
	}
}

func TestLoadPlatformRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PlatformFileName)
	if err := os.WriteFile(path, []byte(`{broken`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPlatform(path); err == nil {
		t.Fatal("expected error for malformed descriptor")
	}
}
