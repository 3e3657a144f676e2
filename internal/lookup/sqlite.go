// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lookup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS selected_students (
	id       TEXT PRIMARY KEY,
	email    TEXT UNIQUE NOT NULL,
	added_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_selected_students_email ON selected_students(email);
`

// Student is one row of the selected_students table.
type Student struct {
	ID      string
	Email   string
	AddedAt time.Time
}

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteStore is a Service backed by the selected_students table.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// OpenSQLite creates or opens the database at path with WAL mode and a
// busy timeout, and creates the schema if needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: %w", ErrNotConfigured)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("sqlite: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	// WAL mode: roster tooling can write while a session reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: wal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Check reports whether the normalized identifier has a row.
func (s *SQLiteStore) Check(ctx context.Context, identifier string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}

	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM selected_students WHERE email = ? LIMIT 1",
		Normalize(identifier)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: query: %w", err)
	}
	return true, nil
}

// Add inserts an identifier. It returns false if it was already present.
func (s *SQLiteStore) Add(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	return addTo(ctx, s.db, email)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func addTo(ctx context.Context, db execer, email string) (bool, error) {
	email = Normalize(email)
	if email == "" {
		return false, fmt.Errorf("sqlite: empty identifier")
	}
	res, err := db.ExecContext(ctx,
		"INSERT OR IGNORE INTO selected_students (id, email, added_at) VALUES (?, ?, ?)",
		uuid.NewString(), email, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("sqlite: insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: insert: %w", err)
	}
	return n > 0, nil
}

// Remove deletes an identifier. It returns false if it was not present.
func (s *SQLiteStore) Remove(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM selected_students WHERE email = ?", Normalize(email))
	if err != nil {
		return false, fmt.Errorf("sqlite: delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// List returns all rows ordered by insertion time.
func (s *SQLiteStore) List(ctx context.Context) ([]Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, added_at FROM selected_students ORDER BY added_at, email")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Email, &st.AddedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Import adds every identifier in a roster stream inside one transaction
// and returns how many were new.
func (s *SQLiteStore) Import(ctx context.Context, r io.Reader) (int, error) {
	ids, err := ParseRoster(r)
	if err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, id := range ids {
		ok, err := addTo(ctx, tx, id)
		if err != nil {
			return 0, err
		}
		if ok {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return added, nil
}

// Close checkpoints the WAL and closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}
