package memory

import (
	"context"
	"sync"
)

// Store is an in-process implementation of app.Store. Values are copied on the way in and out.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewStore() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *Store) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}
