// Package storage provides the persistent store the archive writes itself to:
// a key-value contract where a single key holds the whole serialized
// collection, with no partial-key access.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/2525Azarashi/manatobi/internal/db"
)

// Store defines the interface for the device-local persistent store.
type Store interface {
	// Get returns the value stored under key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, fully replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

type sqliteStore struct {
	db *db.DB
}

// NewStore creates a Store backed by the sqlite database.
func NewStore(database *db.DB) Store {
	return &sqliteStore{db: database}
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM archive_blobs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO archive_blobs (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
