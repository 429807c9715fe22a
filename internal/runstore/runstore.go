// Package runstore keeps a small sqlite index of engine invocations so
// past runs can be listed and inspected without crawling the artifact
// directories. Like the transcript, the index is best-effort audit data:
// callers log and swallow its errors rather than letting bookkeeping kill
// a proof attempt.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
    id TEXT PRIMARY KEY,
    started_at DATETIME NOT NULL,
    finished_at DATETIME,
    state TEXT NOT NULL DEFAULT 'running',
    model TEXT NOT NULL,
    run_dir TEXT NOT NULL,
    runs_used INTEGER NOT NULL DEFAULT 0,
    last_error TEXT NOT NULL DEFAULT '',
    solution_path TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_invocations_started ON invocations(started_at);
`

// Invocation is one engine invocation as recorded in the index.
type Invocation struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	State        string
	Model        string
	RunDir       string
	RunsUsed     int
	LastError    string
	SolutionPath string
}

// Store is the sqlite-backed run index.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the index at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run index: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping run index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize run index schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database. A nil receiver is a no-op, so a
// caller that defers Close may later discard a store that failed mid-use.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordStart inserts a new invocation row in the running state.
func (s *Store) RecordStart(ctx context.Context, id, model, runDir string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (id, started_at, state, model, run_dir) VALUES (?, ?, 'running', ?, ?)`,
		id, time.Now().UTC(), model, runDir)
	if err != nil {
		return fmt.Errorf("record invocation start: %w", err)
	}
	return nil
}

// RecordFinish updates an invocation row with its terminal state.
func (s *Store) RecordFinish(ctx context.Context, id, state string, runsUsed int, lastError, solutionPath string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE invocations SET finished_at = ?, state = ?, runs_used = ?, last_error = ?, solution_path = ? WHERE id = ?`,
		time.Now().UTC(), state, runsUsed, lastError, solutionPath, id)
	if err != nil {
		return fmt.Errorf("record invocation finish: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("record invocation finish: no row for id %s", id)
	}
	return nil
}

// Recent returns up to limit invocations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, started_at), state, model, run_dir, runs_used, last_error, solution_path
		 FROM invocations ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list invocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		if err := rows.Scan(&inv.ID, &inv.StartedAt, &inv.FinishedAt, &inv.State, &inv.Model,
			&inv.RunDir, &inv.RunsUsed, &inv.LastError, &inv.SolutionPath); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
