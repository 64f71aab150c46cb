// Package memory provides a process-local preference store.
package memory

import (
	"context"
	"sync"

	"github.com/bnema/folio/internal/domain/repository"
)

// Store is a map-backed repository.PreferenceStore. Nothing survives the
// process; it backs tests and one-shot CLI runs.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ repository.PreferenceStore = (*Store)(nil)

// NewStore creates a store seeded with initial, which may be nil.
func NewStore(initial map[string]string) *Store {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Store{values: values}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Snapshot returns a copy of every stored pair.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
