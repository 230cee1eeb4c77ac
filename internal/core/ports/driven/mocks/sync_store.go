package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// MockSyncStateStore is a mock implementation of SyncStateStore for testing
type MockSyncStateStore struct {
	mu    sync.RWMutex
	state *domain.SyncState

	// SaveCount counts Save calls; the engine must call it at most once
	// per run.
	SaveCount int

	LoadErr error
	SaveErr error
}

// NewMockSyncStateStore creates a new MockSyncStateStore
func NewMockSyncStateStore() *MockSyncStateStore {
	return &MockSyncStateStore{}
}

func (m *MockSyncStateStore) Load(ctx context.Context) (*domain.SyncState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.state == nil {
		return &domain.SyncState{}, nil
	}
	copied := *m.state
	return &copied, nil
}

func (m *MockSyncStateStore) Save(ctx context.Context, state *domain.SyncState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCount++
	copied := *state
	m.state = &copied
	return nil
}

// Helper methods for testing

// Set seeds the stored state directly.
func (m *MockSyncStateStore) Set(state *domain.SyncState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// State returns the stored state, or nil.
func (m *MockSyncStateStore) State() *domain.SyncState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
