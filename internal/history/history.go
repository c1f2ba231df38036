// Package history persists build manifests to a SQLite database so past
// builds can be listed and inspected.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/thought2/blog/internal/manifest"
)

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Record is one persisted build.
type Record struct {
	ID         string
	Timestamp  time.Time
	Status     string
	SiteHash   string
	PageCount  int
	AssetCount int
	DurationMS int64
}

// ErrNotFound indicates no build with the requested id exists.
var ErrNotFound = errors.New("build not found")

// Open creates or opens a history store. Use ":memory:" for an in-memory
// database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		status TEXT NOT NULL,
		site_hash TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		asset_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		manifest BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a completed build.
func (s *Store) Append(ctx context.Context, m *manifest.SiteManifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	siteHash, err := m.Hash()
	if err != nil {
		return fmt.Errorf("hash manifest: %w", err)
	}
	data, err := m.ToJSON()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO builds (id, timestamp, status, site_hash, page_count, asset_count, duration_ms, manifest) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.Timestamp.Unix(), m.Status, siteHash, len(m.Pages), len(m.Assets), m.DurationMS, data,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// List returns the most recent builds, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, timestamp, status, site_hash, page_count, asset_count, duration_ms FROM builds ORDER BY timestamp DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var ts int64
		if err := rows.Scan(&r.ID, &ts, &r.Status, &r.SiteHash, &r.PageCount, &r.AssetCount, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		r.Timestamp = time.Unix(ts, 0).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns the full manifest of one recorded build.
func (s *Store) Get(ctx context.Context, id string) (*manifest.SiteManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT manifest FROM builds WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query build: %w", err)
	}
	return manifest.FromJSON(data)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
