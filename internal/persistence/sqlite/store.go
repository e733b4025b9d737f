// Package sqlite backs the client's key-value state with a local profile
// database, so a session survives across process runs the way a browser's
// local storage survives across tabs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is a KV implementation on top of a SQLite profile database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the profile database at the given DSN, for example
// "file:roombook.db?_pragma=busy_timeout(5000)".
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open profile database: %w", err)
	}
	// The profile store is single-writer by design; one connection avoids
	// SQLITE_BUSY churn on concurrent test runs.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Migrate creates the backing table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS profile_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate profile database: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value, or the empty string when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM profile_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read profile key %q: %w", key, err)
	}
	return value, nil
}

// Set fully overwrites the value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write profile key %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profile_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete profile key %q: %w", key, err)
	}
	return nil
}
