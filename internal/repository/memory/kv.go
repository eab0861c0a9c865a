package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Kerhoff/planmyevents/internal/repository"
)

type kvRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVRepository creates an in-process key-value repository. Contents are
// lost when the process exits.
func NewKVRepository() repository.KVRepository {
	return &kvRepository{data: make(map[string][]byte)}
}

func (r *kvRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (r *kvRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *kvRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, key)
	return nil
}

func (r *kvRepository) Keys(_ context.Context, prefix string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []string
	for k := range r.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *kvRepository) Close() error {
	return nil
}
