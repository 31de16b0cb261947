// Package history persists one row per generation run to a local sqlite
// database, so regressions in corpus size or coverage are inspectable after
// the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded generation run.
type Run struct {
	ID           string
	Started      time.Time
	Finished     time.Time
	Types        int
	Written      int
	UpToDate     int
	Swept        int
	CoverageGaps int
	SpecFailures int
	Outcome      string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// Store is a sqlite-backed run log.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the run log at dbPath.
// Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		types INTEGER NOT NULL,
		written INTEGER NOT NULL,
		up_to_date INTEGER NOT NULL,
		swept INTEGER NOT NULL,
		coverage_gaps INTEGER NOT NULL,
		spec_failures INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one finished run.
func (s *Store) Append(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started, finished, types, written, up_to_date,
			swept, coverage_gaps, spec_failures, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Started.UnixMilli(), run.Finished.UnixMilli(),
		run.Types, run.Written, run.UpToDate, run.Swept,
		run.CoverageGaps, run.SpecFailures, run.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started, finished, types, written, up_to_date,
			swept, coverage_gaps, spec_failures, outcome
		FROM runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &started, &finished, &r.Types, &r.Written,
			&r.UpToDate, &r.Swept, &r.CoverageGaps, &r.SpecFailures, &r.Outcome); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started = time.UnixMilli(started)
		r.Finished = time.UnixMilli(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
