// Package storage is the namespaced JSON key-value store every other part of
// the planner persists through. It never returns errors: failures are logged
// and degrade to "no data" on read and a dropped write on write.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/metrics"
	"github.com/Kerhoff/planmyevents/internal/repository"
)

// DefaultPrefix namespaces every key written by the planner
const DefaultPrefix = "planmyevents_"

// Logical keys of the persisted state
const (
	KeyEvents         = "events"
	KeyCart           = "cart"
	KeyCurrentEventID = "currentEventId"
	KeyDishes         = "dishes"
	KeyProducts       = "products"
	KeyLookupData     = "lookupData"
	KeyAppSettings    = "appSettings"
)

// Store wraps a KVRepository with a key prefix and JSON encoding
type Store struct {
	repo    repository.KVRepository
	prefix  string
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// New creates a Store. An empty prefix selects DefaultPrefix; m may be nil.
func New(repo repository.KVRepository, prefix string, logger *logrus.Logger, m *metrics.Metrics) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{repo: repo, prefix: prefix, logger: logger, metrics: m}
}

// Prefix returns the namespace prefix
func (s *Store) Prefix() string {
	return s.prefix
}

// Set serializes value and writes it under key
func (s *Store) Set(ctx context.Context, key string, value any) {
	s.metrics.StorageOp("set")

	data, err := json.Marshal(value)
	if err != nil {
		s.fail("set", key, err)
		return
	}
	if err := s.repo.Set(ctx, s.prefix+key, data); err != nil {
		s.fail("set", key, err)
	}
}

// Get decodes the value under key into dest, which must be a non-nil
// pointer. Fields absent from the stored JSON keep dest's current values.
// It returns false when the key is missing, the value cannot be decoded, or
// the backend is unavailable; dest is left untouched in that case.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	s.metrics.StorageOp("get")

	data, err := s.repo.Get(ctx, s.prefix+key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.fail("get", key, err)
		}
		return false
	}

	// A stored JSON null counts as absent.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.fail("get", key, err)
		return false
	}
	if string(raw) == "null" {
		return false
	}
	if err := decodeInto(raw, dest); err != nil {
		s.fail("get", key, err)
		return false
	}
	return true
}

// decodeInto unmarshals data into a deep copy of *dest and stores the result
// only when decoding succeeds. json.Unmarshal keeps filling its target after
// a type error, so decoding in place would leave dest half-written.
func decodeInto(data []byte, dest any) error {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dest)
	}

	scratch := reflect.New(target.Elem().Type())
	current, err := json.Marshal(dest)
	if err != nil {
		return fmt.Errorf("failed to copy destination: %w", err)
	}
	if err := json.Unmarshal(current, scratch.Interface()); err != nil {
		return fmt.Errorf("failed to copy destination: %w", err)
	}

	if err := json.Unmarshal(data, scratch.Interface()); err != nil {
		return err
	}
	target.Elem().Set(scratch.Elem())
	return nil
}

// Remove deletes key
func (s *Store) Remove(ctx context.Context, key string) {
	s.metrics.StorageOp("remove")

	if err := s.repo.Delete(ctx, s.prefix+key); err != nil {
		s.fail("remove", key, err)
	}
}

// Keys lists the logical keys currently stored under the namespace
func (s *Store) Keys(ctx context.Context) []string {
	full, err := s.repo.Keys(ctx, s.prefix)
	if err != nil {
		s.fail("keys", "", err)
		return nil
	}

	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, s.prefix))
	}
	return keys
}

// Clear removes every key under the namespace and nothing else
func (s *Store) Clear(ctx context.Context) {
	s.ClearExcept(ctx)
}

// ClearExcept removes every key under the namespace except the listed ones
func (s *Store) ClearExcept(ctx context.Context, keep ...string) {
	s.metrics.StorageOp("clear")

	skip := make(map[string]bool, len(keep))
	for _, k := range keep {
		skip[k] = true
	}
	for _, key := range s.Keys(ctx) {
		if skip[key] {
			continue
		}
		s.Remove(ctx, key)
	}
}

func (s *Store) fail(op, key string, err error) {
	s.metrics.StorageError(op)
	s.logger.WithFields(logrus.Fields{
		"op":    op,
		"key":   key,
		"error": err,
	}).Error("Storage operation failed")
}
