package driven

import (
	"context"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// SnapshotStore persists the per-item fingerprint snapshot used for change
// detection between syncs.
type SnapshotStore interface {
	// Load returns the previous snapshot, or nil when none exists.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save replaces the entire prior snapshot; there is no incremental merge.
	Save(ctx context.Context, snap *domain.Snapshot) error
}
