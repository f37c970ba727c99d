package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. With a quota it behaves like a
// browser localStorage: a Set that would push the total size of keys and
// values past the quota fails and leaves the previous value in place.
type MemoryStore struct {
	values map[string]string
	quota  int
	used   int
	mu     sync.RWMutex
}

// NewMemoryStore creates a store limited to quota bytes; 0 means unlimited
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		quota:  quota,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used + len(value)
	if old, ok := m.values[key]; ok {
		used -= len(old)
	} else {
		used += len(key)
	}
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}
	m.values[key] = value
	m.used = used
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.values[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.values, key)
	}
	return nil
}

// Used returns the number of bytes currently stored
func (m *MemoryStore) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
