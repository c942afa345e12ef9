// Package store records index runs and built artifacts in SQLite.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// dbFileName is the history database file inside the data directory.
const dbFileName = "history.db"

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Run is one recorded index run.
type Run struct {
	RunID      string
	Channel    string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Built      int
}

// Artifact is one archive built during a run.
type Artifact struct {
	ArtifactID  string
	RunID       string
	Name        string
	Kind        string
	Channel     string
	Version     string
	Checksum    string
	ArchivePath string
	BuiltAt     time.Time
}

// Open creates the data directory if needed, opens the history database,
// and applies the schema.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRun returns a Run with a fresh identifier and the clock started.
func NewRun(channel string) Run {
	return Run{
		RunID:     uuid.NewString(),
		Channel:   channel,
		StartedAt: time.Now().UTC(),
	}
}

// RecordRun persists a finished run and its artifacts in one transaction.
func (s *Store) RecordRun(run Run, artifacts []Artifact) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, channel, started_at, finished_at, scanned, built)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Channel,
		run.StartedAt.Format(time.RFC3339Nano),
		run.FinishedAt.Format(time.RFC3339Nano),
		run.Scanned, run.Built,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, a := range artifacts {
		id := a.ArtifactID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = tx.Exec(
			`INSERT INTO artifacts (artifact_id, run_id, name, kind, channel, version, checksum, archive_path, built_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, run.RunID, a.Name, a.Kind, a.Channel, a.Version, a.Checksum,
			a.ArchivePath, a.BuiltAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert artifact %s: %w", a.Name, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, channel, started_at, finished_at, scanned, built
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.RunID, &r.Channel, &started, &finished, &r.Scanned, &r.Built); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestArtifacts returns the most recently built artifact per package,
// kind, and channel.
func (s *Store) LatestArtifacts() ([]Artifact, error) {
	rows, err := s.db.Query(
		`SELECT a.artifact_id, a.run_id, a.name, a.kind, a.channel, a.version,
		        a.checksum, a.archive_path, a.built_at
		 FROM artifacts a
		 JOIN (
		     SELECT name, kind, channel, MAX(built_at) AS built_at
		     FROM artifacts GROUP BY name, kind, channel
		 ) latest
		 ON a.name = latest.name AND a.kind = latest.kind
		    AND a.channel = latest.channel AND a.built_at = latest.built_at
		 ORDER BY a.kind, a.name, a.channel`)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		var built string
		if err := rows.Scan(&a.ArtifactID, &a.RunID, &a.Name, &a.Kind, &a.Channel,
			&a.Version, &a.Checksum, &a.ArchivePath, &built); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		a.BuiltAt, _ = time.Parse(time.RFC3339Nano, built)
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}
