package store

import (
	"context"
	"sort"
	"sync"
)

// MemStore is a map-backed Store for tests and throwaway sessions. It
// supports per-key write failure injection so rollback paths can be
// exercised without a damaged disk.
type MemStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	failSets map[string]error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		data:     make(map[string][]byte),
		failSets: make(map[string]error),
	}
}

// FailSet makes every subsequent write of key fail with err, inside and
// outside of Update batches, until ClearFailures is called.
func (m *MemStore) FailSet(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSets[key] = err
}

// ClearFailures removes all injected failures.
func (m *MemStore) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSets = make(map[string]error)
}

// Get returns a copy of the value stored under key.
func (m *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, NewNotFoundError(key)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set writes a copy of value under key.
func (m *MemStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failSets[key]; ok {
		return Classify("set", key, err)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Delete removes key. Absent keys delete cleanly.
func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns all stored keys in lexical order.
func (m *MemStore) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Update runs fn against a scratch copy of the data and swaps it in only
// when fn succeeds, so a failed batch leaves the store untouched.
func (m *MemStore) Update(_ context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	scratch := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		scratch[k] = v
	}

	tx := &memTx{data: scratch, failSets: m.failSets}
	if err := fn(tx); err != nil {
		return Classify("update", "", err)
	}

	m.data = scratch
	return nil
}

// Close is a no-op for the memory store.
func (m *MemStore) Close() error {
	return nil
}

// memTx mutates the scratch copy during an Update batch.
type memTx struct {
	data     map[string][]byte
	failSets map[string]error
}

func (t *memTx) Get(key string) ([]byte, error) {
	value, ok := t.data[key]
	if !ok {
		return nil, NewNotFoundError(key)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (t *memTx) Set(key string, value []byte) error {
	if err, ok := t.failSets[key]; ok {
		return Classify("set", key, err)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	t.data[key] = stored
	return nil
}

func (t *memTx) Delete(key string) error {
	delete(t.data, key)
	return nil
}
