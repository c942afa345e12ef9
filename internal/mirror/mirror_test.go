package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeyard/shelf/pkg/types"
)

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.Mirror
		wantErr error
	}{
		{"missing host", types.Mirror{User: "u", KeyPath: "k"}, ErrHostEmpty},
		{"missing user", types.Mirror{Host: "h", KeyPath: "k"}, ErrUserEmpty},
		{"missing key", types.Mirror{Host: "h", User: "u"}, ErrKeyPathEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, zerolog.Nop())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	c, err := New(types.Mirror{Host: "mirror.example.org", User: "shelf", KeyPath: "/k"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "mirror.example.org:22", c.addr())

	c, err = New(types.Mirror{Host: "mirror.example.org", Port: 2022, User: "shelf", KeyPath: "/k"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "mirror.example.org:2022", c.addr())
}

func TestArtifactPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "integrations"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "platforms"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "integrations", "weather.zip"), []byte("z"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "integrations", "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "platforms", "epaper_dev.zip"), []byte("z"), 0o644))

	paths, err := ArtifactPaths(dir, []string{"integrations", "platforms"}, "index.json")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"index.json",
		filepath.Join("integrations", "weather.zip"),
		filepath.Join("platforms", "epaper_dev.zip"),
	}, paths)
}

func TestArtifactPathsMissingArchiveDir(t *testing.T) {
	dir := t.TempDir()
	paths, err := ArtifactPaths(dir, []string{"integrations"}, "index.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"index.json"}, paths)
}
