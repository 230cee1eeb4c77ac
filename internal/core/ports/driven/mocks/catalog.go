package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
)

// MockCatalogFetcher is a mock implementation of CatalogFetcher for testing
type MockCatalogFetcher struct {
	mu sync.Mutex

	// Result is returned from FetchAll unless Err is set.
	Result *driven.FetchResult
	Err    error

	// Specs records every FetchSpec passed to FetchAll.
	Specs []driven.FetchSpec

	// FetchFunc, when set, overrides the canned Result/Err.
	FetchFunc func(ctx context.Context, spec driven.FetchSpec) (*driven.FetchResult, error)
}

// NewMockCatalogFetcher creates a new MockCatalogFetcher
func NewMockCatalogFetcher() *MockCatalogFetcher {
	return &MockCatalogFetcher{Result: &driven.FetchResult{}}
}

func (m *MockCatalogFetcher) FetchAll(ctx context.Context, spec driven.FetchSpec) (*driven.FetchResult, error) {
	m.mu.Lock()
	m.Specs = append(m.Specs, spec)
	fn := m.FetchFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, spec)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// LastSpec returns the most recent FetchSpec, or a zero value.
func (m *MockCatalogFetcher) LastSpec() driven.FetchSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Specs) == 0 {
		return driven.FetchSpec{}
	}
	return m.Specs[len(m.Specs)-1]
}
