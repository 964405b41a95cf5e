package storage

import (
	"context"
	"strings"
	"sync"

	"charity-workflow-backend/internal/logger"
)

// MemoryStore keeps everything in a map. It is safe for concurrent use and
// intended for dev and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	logger.StoreCall(BackendMemory, "GET", key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(v), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	logger.StoreCall(BackendMemory, "SET", key)
	s.mu.Lock()
	s.items[key] = cloneBytes(value)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	logger.StoreCall(BackendMemory, "DELETE", key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ListByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	logger.StoreCall(BackendMemory, "LIST", prefix)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for k, v := range s.items {
		if strings.HasPrefix(k, prefix) {
			out = append(out, Entry{Key: k, Value: cloneBytes(v)})
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
