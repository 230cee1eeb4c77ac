package driving

import (
	"context"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// RunOptions control one sync invocation.
type RunOptions struct {
	// ForceFull forces full reconciliation regardless of elapsed time.
	ForceFull bool

	// Resume allows a full fetch to continue from a stored checkpoint.
	Resume bool
}

// SyncRunner is the single entry point the scheduler and the HTTP trigger
// call. One invocation is one logical run.
type SyncRunner interface {
	Run(ctx context.Context, opts RunOptions) (*domain.SyncReport, error)
}
