package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/planmyevents/internal/repository"
)

// Migrations holds the schema for the kv_store table
//
//go:embed migrations/*.sql
var Migrations embed.FS

type kvRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new key-value repository backed by the kv_store table
func NewKVRepository(db *sql.DB) repository.KVRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
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
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query, key, string(value), time.Now())
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}

func (r *kvRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `
		SELECT key
		FROM kv_store
		WHERE key LIKE $1 ESCAPE '\'
		ORDER BY key ASC`

	rows, err := r.db.QueryContext(ctx, query, likePrefix(prefix))
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
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// Close is a no-op; the connection pool belongs to config.Database.
func (r *kvRepository) Close() error {
	return nil
}

// likePrefix escapes LIKE wildcards so prefix is matched literally
func likePrefix(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix) + "%"
}
