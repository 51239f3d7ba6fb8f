// Package memory is an in-process storage.KV, used by tests and by sessions
// that should not touch disk.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tabletop/internal/storage"
)

var _ storage.KV = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	values map[string][]byte
	quota  int
}

// New returns an empty store. quota caps the size of a single value in bytes;
// zero means unlimited.
func New(quota int) *Store {
	return &Store{values: make(map[string][]byte), quota: quota}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.quota > 0 && len(value) > s.quota {
		return fmt.Errorf("setting %s (%d bytes, quota %d): %w", key, len(value), s.quota, storage.ErrQuotaExceeded)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.values, key)
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}
