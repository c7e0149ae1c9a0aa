package blobs

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophgallery/internal/shared"
)

type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Blob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Blob)}
}

func (s *MemoryStore) Put(ctx context.Context, key string, b Blob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = Blob{Data: append([]byte(nil), b.Data...), ContentType: b.ContentType}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.items[key]
	if !ok {
		return Blob{}, shared.ErrorNotFound
	}
	return b, nil
}

// Delete is idempotent.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len is the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
