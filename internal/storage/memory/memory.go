package memory

import (
	"context"
	"sync"

	"okane/internal/storage"
)

// Store keeps records in process memory. It is used for tests and for
// throwaway sessions where nothing should reach the disk.
type Store struct {
	mu      sync.Mutex
	records map[string][]byte
	writes  int
}

var _ storage.Adapter = (*Store)(nil)

func New() *Store {
	return &Store{records: map[string][]byte{}}
}

// NewSeeded returns a store pre-populated with raw records.
func NewSeeded(seed map[string][]byte) *Store {
	s := New()
	for k, v := range seed {
		s.records[k] = clone(v)
	}
	return s
}

// Load implements storage.Adapter
func (s *Store) Load(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, storage.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// Save implements storage.Adapter
func (s *Store) Save(_ context.Context, key string, data []byte) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = clone(data)
	s.writes++
	return nil
}

// Snapshot returns a copy of every record, keyed by name.
func (s *Store) Snapshot() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.records))
	for k, v := range s.records {
		out[k] = clone(v)
	}
	return out
}

// Writes returns how many Save calls have succeeded.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
