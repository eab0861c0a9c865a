package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KVRepository.Get when the key does not exist
var ErrNotFound = errors.New("key not found")

// KVRepository defines the interface for raw key-value persistence. Keys are
// stored verbatim; namespacing and encoding happen in the storage layer.
type KVRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns every stored key starting with prefix, in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
