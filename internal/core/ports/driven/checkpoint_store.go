package driven

import (
	"context"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// CheckpointStore persists partial-fetch progress for resume.
type CheckpointStore interface {
	// Save fully overwrites the prior checkpoint. Safe to call after every
	// page.
	Save(ctx context.Context, cp *domain.Checkpoint) error

	// Load returns the stored checkpoint, or nil when none exists. Corrupt
	// checkpoint data is treated as absent, not as an error.
	Load(ctx context.Context) (*domain.Checkpoint, error)

	// Clear removes the checkpoint. Not an error if none exists.
	Clear(ctx context.Context) error
}
