package media

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for development and tests.
// References have the same shape as the S3 implementation's but the bytes
// live only as long as the process.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put stores the content under a fresh random key and returns the key.
func (s *MemoryStore) Put(_ context.Context, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("media.MemoryStore.Put: %w", err)
	}

	key := "covers/" + uuid.NewString()
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return key, nil
}

// Get returns the stored bytes for a reference. Test helper.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
