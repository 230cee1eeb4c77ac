package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// MockAuditLog is a mock implementation of AuditLog for testing
type MockAuditLog struct {
	mu      sync.Mutex
	Entries []*domain.Diff
	Prunes  []int

	AppendErr error
}

// NewMockAuditLog creates a new MockAuditLog
func NewMockAuditLog() *MockAuditLog {
	return &MockAuditLog{}
}

func (m *MockAuditLog) Append(ctx context.Context, diff *domain.Diff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Entries = append(m.Entries, diff)
	return nil
}

func (m *MockAuditLog) Prune(ctx context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prunes = append(m.Prunes, keep)
	if len(m.Entries) > keep {
		m.Entries = m.Entries[len(m.Entries)-keep:]
	}
	return nil
}

// Len returns the number of appended entries.
func (m *MockAuditLog) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}
