package session

import (
	"context"
	"sync"
)

// Store is a namespaced key-value store. Every chat owns one namespace.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	// Update deletes del and writes set within namespace as one change.
	Update(ctx context.Context, namespace string, set map[string]string, del []string) error
}

// MemoryStore keeps values for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[namespace][key]
	return v, ok, nil
}

func (s *MemoryStore) Update(_ context.Context, namespace string, set map[string]string, del []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]string)
		s.data[namespace] = ns
	}

	for _, k := range del {
		delete(ns, k)
	}
	for k, v := range set {
		ns[k] = v
	}

	return nil
}

// Keys lists the keys present in namespace.
func (s *MemoryStore) Keys(namespace string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data[namespace]))
	for k := range s.data[namespace] {
		keys = append(keys, k)
	}
	return keys
}
