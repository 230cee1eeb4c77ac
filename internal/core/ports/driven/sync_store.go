package driven

import (
	"context"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// SyncStateStore persists the process-wide SyncState singleton.
type SyncStateStore interface {
	// Load returns the current sync state, or a zero-value state when no
	// run has ever completed.
	Load(ctx context.Context) (*domain.SyncState, error)

	// Save replaces the singleton. Called exactly once per successful run.
	Save(ctx context.Context, state *domain.SyncState) error
}
