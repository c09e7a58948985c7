package store

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStore implements Store in memory.
// Useful for testing and single-process scenarios.
type MemoryStore struct {
	mu     sync.RWMutex
	data   []byte
	has    bool
	writes int
	closed atomic.Bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates an in-memory store holding data, as if it had
// been written once.
func NewMemoryStoreWith(data []byte) *MemoryStore {
	s := &MemoryStore{}
	s.data = append([]byte(nil), data...)
	s.has = true
	return s
}

// Read returns a copy of the stored document.
func (s *MemoryStore) Read(ctx context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.has {
		return nil, ErrNotFound
	}
	val := make([]byte, len(s.data))
	copy(val, s.data)
	return val, nil
}

// Write replaces the stored document.
func (s *MemoryStore) Write(ctx context.Context, data []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data[:0:0], data...)
	s.has = true
	s.writes++
	return nil
}

// Writes returns how many times Write succeeded.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Location returns "memory".
func (s *MemoryStore) Location() string {
	return "memory"
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}
