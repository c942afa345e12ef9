// Shared helpers for shelf CLI commands.
package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/forgeyard/shelf/internal/index"
	"github.com/forgeyard/shelf/internal/sources"
	"github.com/forgeyard/shelf/internal/store"
	"github.com/forgeyard/shelf/pkg/types"
)

// indexPaths are the paths inside the index checkout that publish stages.
func indexPaths() []string {
	return []string{index.FileName, index.IntegrationsDir, index.PlatformsDir}
}

// openStore resolves the data directory and opens the history database.
// The caller must close the returned store.
func openStore() (*store.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	s, err := store.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return s, nil
}

// runIndex executes one index run on the given channel and records it in
// the history database.
func runIndex(channel string) (index.Result, error) {
	var res index.Result
	if !types.ValidChannel(channel) {
		return res, types.ErrChannelUnknown
	}

	core := make(map[string]string, len(cfg.Sources))
	for _, src := range cfg.Sources {
		v, err := sources.Version(src)
		if err != nil {
			return res, err
		}
		core[src.Name] = v
	}

	run := store.NewRun(channel)

	b := &index.Builder{
		PackagesDir: cfg.PackagesDir,
		IndexDir:    cfg.IndexDir,
		Channel:     channel,
		Ignore:      cfg.Ignore,
		Core:        core,
		Log:         log.Logger,
	}
	res, err := b.Run()
	if err != nil {
		return res, err
	}

	run.FinishedAt = time.Now().UTC()
	run.Scanned = res.Scanned
	run.Built = len(res.Built)

	artifacts := make([]store.Artifact, 0, len(res.Built))
	for _, a := range res.Built {
		artifacts = append(artifacts, store.Artifact{
			RunID:       run.RunID,
			Name:        a.Name,
			Kind:        a.Kind,
			Channel:     a.Channel,
			Version:     a.Version,
			Checksum:    a.SHA256,
			ArchivePath: a.ArchivePath,
			BuiltAt:     run.FinishedAt,
		})
	}

	s, err := openStore()
	if err != nil {
		return res, err
	}
	defer s.Close()
	if err := s.RecordRun(run, artifacts); err != nil {
		return res, fmt.Errorf("record run: %w", err)
	}

	log.Info().Str("channel", channel).
		Int("scanned", res.Scanned).Int("built", len(res.Built)).
		Msg("index run complete")
	return res, nil
}
