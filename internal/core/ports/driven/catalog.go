package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// FetchSpec scopes one catalog fetch.
type FetchSpec struct {
	// Statuses are the status filters to iterate, each across its full page
	// range, in order. Results across filters are concatenated.
	Statuses []domain.ItemStatus

	// UpdatedAfter, when set, asks the upstream to return only items updated
	// strictly after it (delta sync watermark).
	UpdatedAfter *time.Time

	// Resume asks the fetcher to consult the checkpoint store and continue
	// an interrupted full fetch instead of starting cold.
	Resume bool

	// Checkpoint enables per-page checkpointing during the fetch. Delta
	// fetches leave it off; an interrupted delta is simply re-run.
	Checkpoint bool
}

// FetchResult is the outcome of one fetch across all filters and pages.
type FetchResult struct {
	Items []domain.InventoryItem

	// FailedPages counts pages skipped after exhausting their retry budget.
	// A non-zero count does not fail the fetch.
	FailedPages int
}

// CatalogFetcher retrieves one logical resource set from the upstream
// catalog across pages, with retry, backoff, and rate limiting.
type CatalogFetcher interface {
	FetchAll(ctx context.Context, spec FetchSpec) (*FetchResult, error)
}
