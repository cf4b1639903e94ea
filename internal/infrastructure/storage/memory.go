package storage

import (
	"context"
	"io"
	"sort"
	"sync"

	domain "github.com/oksasatya/user-admin/internal/domain/storage"
)

// MemoryStore is an in-process BlobStore for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// Optional fault injection.
	PutErr    error
	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, namespace string, r io.Reader, ext, _ string) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := newKey(namespace, ext)
	s.mu.Lock()
	s.blobs[key] = b
	s.mu.Unlock()
	return key, nil
}

func (s *MemoryStore) Exists(_ context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[path]
	return ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	delete(s.blobs, path)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) URL(path string) string { return "/storage/" + path }

// Keys lists stored paths in lexical order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bytes returns the stored content of path.
func (s *MemoryStore) Bytes(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[path]
	return b, ok
}

var _ domain.BlobStore = (*MemoryStore)(nil)
