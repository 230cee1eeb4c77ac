package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
)

// MockItemStore is an in-memory mock implementation of ItemStore for testing
type MockItemStore struct {
	mu    sync.RWMutex
	items map[int64]domain.InventoryItem

	// UpsertErr / EvictErr make the corresponding call fail.
	UpsertErr error
	EvictErr  error

	// Batches records the size of every UpsertBatch call.
	Batches []int

	// EvictCutoffs records every eviction cutoff passed in.
	EvictCutoffs []time.Time
}

// NewMockItemStore creates a new MockItemStore
func NewMockItemStore() *MockItemStore {
	return &MockItemStore{items: make(map[int64]domain.InventoryItem)}
}

func (m *MockItemStore) UpsertBatch(ctx context.Context, items []domain.InventoryItem, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Batches = append(m.Batches, len(items))
	for _, item := range items {
		item.LastSyncedAt = syncedAt
		m.items[item.ID] = item
	}
	return nil
}

func (m *MockItemStore) EvictStaleBefore(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EvictErr != nil {
		return 0, m.EvictErr
	}
	m.EvictCutoffs = append(m.EvictCutoffs, cutoff)
	removed := 0
	for id, item := range m.items {
		if item.LastSyncedAt.Before(cutoff) {
			delete(m.items, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MockItemStore) Get(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (m *MockItemStore) List(ctx context.Context, filter driven.ItemFilter) ([]domain.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.InventoryItem
	for _, item := range m.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (m *MockItemStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

// Helper methods for testing

// Seed inserts an item directly with the given last-synced timestamp.
func (m *MockItemStore) Seed(item domain.InventoryItem, syncedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.LastSyncedAt = syncedAt
	m.items[item.ID] = item
}

// Has reports whether an id is currently mirrored.
func (m *MockItemStore) Has(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[id]
	return ok
}

// Len returns the number of mirrored items.
func (m *MockItemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
