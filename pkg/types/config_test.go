package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty packages_dir returns ErrPackagesDirEmpty",
			config:  Config{PackagesDir: "", IndexDir: "."},
			wantErr: ErrPackagesDirEmpty,
		},
		{
			name:    "empty index_dir returns ErrIndexDirEmpty",
			config:  Config{PackagesDir: "../designer", IndexDir: ""},
			wantErr: ErrIndexDirEmpty,
		},
		{
			name: "source without name returns ErrSourceNameEmpty",
			config: Config{
				PackagesDir: "../designer",
				IndexDir:    ".",
				Sources:     []Source{{Name: "", Path: "../core"}},
			},
			wantErr: ErrSourceNameEmpty,
		},
		{
			name: "source without path returns ErrSourcePathEmpty",
			config: Config{
				PackagesDir: "../designer",
				IndexDir:    ".",
				Sources:     []Source{{Name: "core", Path: ""}},
			},
			wantErr: ErrSourcePathEmpty,
		},
		{
			name: "valid config",
			config: Config{
				PackagesDir: "../designer",
				IndexDir:    ".",
				Sources:     []Source{{Name: "core", Path: "../core"}},
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidChannel(t *testing.T) {
	if !ValidChannel(ChannelMain) || !ValidChannel(ChannelDev) {
		t.Fatal("main and dev must be valid channels")
	}
	if ValidChannel("nightly") {
		t.Fatal("nightly must not be a valid channel")
	}
	if ValidChannel("") {
		t.Fatal("empty string must not be a valid channel")
	}
}

func TestValidKind(t *testing.T) {
	if !ValidKind(KindIntegration) || !ValidKind(KindPlatform) {
		t.Fatal("integration and platform must be valid kinds")
	}
	if ValidKind("theme") {
		t.Fatal("theme must not be a valid kind")
	}
}
