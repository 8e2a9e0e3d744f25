package timer

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps snapshots in process. Used by tests.
type MemoryStore struct {
	mu    sync.Mutex
	snaps map[uuid.UUID]Snapshot
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: map[uuid.UUID]Snapshot{}}
}

func (m *MemoryStore) Load(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[userID], nil
}

func (m *MemoryStore) Save(ctx context.Context, userID uuid.UUID, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[userID] = snap
	m.saves++
	return nil
}

// Saves counts Save calls.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
