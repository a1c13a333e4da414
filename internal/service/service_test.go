package service

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/store"
)

// setupTestStore opens a badger store in a temp dir, closed on cleanup.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// memPersister keeps the latest snapshot per key, like the real persister
// but synchronously.
type memPersister struct {
	mu        sync.Mutex
	snapshots map[string][]byte
	calls     map[string]int
}

func newMemPersister() *memPersister {
	return &memPersister{
		snapshots: make(map[string][]byte),
		calls:     make(map[string]int),
	}
}

func (m *memPersister) Enqueue(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = data
	m.calls[key]++
	return nil
}

func (m *memPersister) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key]
}

func (m *memPersister) decode(t *testing.T, key string, dest any) {
	t.Helper()
	m.mu.Lock()
	data, ok := m.snapshots[key]
	m.mu.Unlock()
	require.True(t, ok, "no snapshot for %s", key)
	require.NoError(t, json.Unmarshal(data, dest))
}
