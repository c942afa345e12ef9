package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeyard/shelf/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordRunAndRecentRuns(t *testing.T) {
	s := openTestStore(t)

	run := NewRun(types.ChannelMain)
	run.Scanned = 3
	run.Built = 2
	run.FinishedAt = run.StartedAt.Add(2 * time.Second)

	artifacts := []Artifact{
		{Name: "weather", Kind: types.KindIntegration, Channel: types.ChannelMain,
			Version: "1.0.0", Checksum: "abc", ArchivePath: "integrations/weather.zip",
			BuiltAt: run.FinishedAt},
		{Name: "epaper", Kind: types.KindPlatform, Channel: types.ChannelMain,
			Version: "0.3.0", Checksum: "def", ArchivePath: "platforms/epaper.zip",
			BuiltAt: run.FinishedAt},
	}
	require.NoError(t, s.RecordRun(run, artifacts))

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.RunID, runs[0].RunID)
	assert.Equal(t, types.ChannelMain, runs[0].Channel)
	assert.Equal(t, 3, runs[0].Scanned)
	assert.Equal(t, 2, runs[0].Built)
}

func TestRecentRunsNewestFirstAndLimited(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		run := NewRun(types.ChannelDev)
		run.StartedAt = time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC)
		run.FinishedAt = run.StartedAt.Add(time.Second)
		require.NoError(t, s.RecordRun(run, nil))
	}

	runs, err := s.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
}

func TestLatestArtifactsPicksNewestPerPackage(t *testing.T) {
	s := openTestStore(t)

	old := NewRun(types.ChannelMain)
	old.StartedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	old.FinishedAt = old.StartedAt.Add(time.Second)
	require.NoError(t, s.RecordRun(old, []Artifact{
		{Name: "weather", Kind: types.KindIntegration, Channel: types.ChannelMain,
			Version: "1.0.0", Checksum: "old", ArchivePath: "integrations/weather.zip",
			BuiltAt: old.FinishedAt},
	}))

	recent := NewRun(types.ChannelMain)
	recent.StartedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	recent.FinishedAt = recent.StartedAt.Add(time.Second)
	require.NoError(t, s.RecordRun(recent, []Artifact{
		{Name: "weather", Kind: types.KindIntegration, Channel: types.ChannelMain,
			Version: "1.1.0", Checksum: "new", ArchivePath: "integrations/weather.zip",
			BuiltAt: recent.FinishedAt},
		{Name: "weather", Kind: types.KindIntegration, Channel: types.ChannelDev,
			Version: "1.2.0-dev", Checksum: "dev", ArchivePath: "integrations/weather_dev.zip",
			BuiltAt: recent.FinishedAt},
	}))

	artifacts, err := s.LatestArtifacts()
	require.NoError(t, err)
	require.Len(t, artifacts, 2, "one entry per channel")

	byChannel := map[string]Artifact{}
	for _, a := range artifacts {
		byChannel[a.Channel] = a
	}
	assert.Equal(t, "new", byChannel[types.ChannelMain].Checksum)
	assert.Equal(t, "1.1.0", byChannel[types.ChannelMain].Version)
	assert.Equal(t, "dev", byChannel[types.ChannelDev].Checksum)
}

func TestOpenCreatesDataDir(t *testing.T) {
	dir := t.TempDir() + "/nested/data"
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.RecentRuns(1)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
