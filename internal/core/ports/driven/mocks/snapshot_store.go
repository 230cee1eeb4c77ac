package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// MockSnapshotStore is a mock implementation of SnapshotStore for testing
type MockSnapshotStore struct {
	mu   sync.Mutex
	snap *domain.Snapshot

	Saves   int
	SaveErr error
	LoadErr error
}

// NewMockSnapshotStore creates a new MockSnapshotStore
func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{}
}

func (m *MockSnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.snap, nil
}

func (m *MockSnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.snap = snap
	return nil
}

// Set seeds the stored snapshot directly.
func (m *MockSnapshotStore) Set(snap *domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
}

// Stored returns the current snapshot, or nil.
func (m *MockSnapshotStore) Stored() *domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}
