package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests. GetErr and SetErr, when
// set, are returned by the corresponding operation to simulate a store that
// is unavailable or out of quota.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	GetErr error
	SetErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

// Seed places a raw value under key, bypassing error injection. Tests use it
// to stage pre-existing or corrupt persisted data.
func (m *MemoryStore) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

var _ Store = (*MemoryStore)(nil)
