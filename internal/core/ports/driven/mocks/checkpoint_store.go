package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// MockCheckpointStore is a mock implementation of CheckpointStore for testing
type MockCheckpointStore struct {
	mu sync.Mutex
	cp *domain.Checkpoint

	// Saves counts Save calls; Cleared counts Clear calls.
	Saves   int
	Cleared int

	SaveErr error
}

// NewMockCheckpointStore creates a new MockCheckpointStore
func NewMockCheckpointStore() *MockCheckpointStore {
	return &MockCheckpointStore{}
}

func (m *MockCheckpointStore) Save(ctx context.Context, cp *domain.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	copied := *cp
	m.cp = &copied
	return nil
}

func (m *MockCheckpointStore) Load(ctx context.Context) (*domain.Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cp == nil {
		return nil, nil
	}
	copied := *m.cp
	return &copied, nil
}

func (m *MockCheckpointStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cleared++
	m.cp = nil
	return nil
}

// Helper methods for testing

// Set seeds a stored checkpoint directly.
func (m *MockCheckpointStore) Set(cp *domain.Checkpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cp = cp
}

// Stored returns the current checkpoint, or nil.
func (m *MockCheckpointStore) Stored() *domain.Checkpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cp
}
