package store

import (
	"context"
	"sync"

	"github.com/viant/btuid/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps entities of type *T mapped by a comparable key K.
//
// Concrete DAOs embed the store and avoid rewriting identical
// Load/Create/Save logic for every entity type.
type MemoryStore[K comparable, T any] struct {
	mu      sync.RWMutex
	records map[K]*T
}

var _ dao.Service[string, []byte] = (*MemoryStore[string, []byte])(nil)

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore[K comparable, T any]() *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records: make(map[K]*T),
	}
}

// Load returns a record by key.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return v, nil
}

// Create stores a record unless the key is taken.
func (s *MemoryStore[K, T]) Create(_ context.Context, key K, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return dao.ErrAlreadyExists
	}
	s.records[key] = v
	return nil
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, key K, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
