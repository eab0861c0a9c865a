package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Kerhoff/planmyevents/internal/repository"
)

type kvRepository struct {
	client *goredis.Client
}

// NewKVRepository creates a Redis-backed key-value repository from a
// redis:// URL and verifies the connection.
func NewKVRepository(ctx context.Context, url string) (repository.KVRepository, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &kvRepository{client: client}, nil
}

// NewKVRepositoryFromClient wraps an existing client
func NewKVRepositoryFromClient(client *goredis.Client) repository.KVRepository {
	return &kvRepository{client: client}
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return data, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (r *kvRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	pattern := escapeGlob(prefix) + "*"
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *kvRepository) Close() error {
	return r.client.Close()
}

// escapeGlob quotes the characters SCAN MATCH treats as patterns
func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
