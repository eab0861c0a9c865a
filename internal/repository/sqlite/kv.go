package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/Kerhoff/planmyevents/internal/repository"
)

type kvRepository struct {
	db *sql.DB
}

// NewKVRepository opens (or creates) a SQLite database at path and stores
// every key as one row. Use ":memory:" for a throwaway database.
func NewKVRepository(path string) (repository.KVRepository, error) {
	if path == "" {
		path = "planmyevents.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &kvRepository{db: db}, nil
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (r *kvRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM kv WHERE key >= ? ORDER BY key ASC`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		// Keys are ordered bytewise, so the first mismatch ends the prefix range.
		if !strings.HasPrefix(key, prefix) {
			break
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *kvRepository) Close() error {
	return r.db.Close()
}
