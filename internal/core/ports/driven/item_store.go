package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// ItemFilter narrows List queries on the mirror.
type ItemFilter struct {
	Status domain.ItemStatus
	Limit  int
	Offset int
}

// ItemStore is the persistence/eviction layer over the mirror table.
type ItemStore interface {
	// UpsertBatch writes items in fixed-size batches, each batch atomically:
	// either the whole batch lands or none of it. Every mutable field is
	// overwritten and last_synced_at is set to syncedAt.
	UpsertBatch(ctx context.Context, items []domain.InventoryItem, syncedAt time.Time) error

	// EvictStaleBefore deletes rows whose last_synced_at is strictly before
	// cutoff and returns how many were removed. Only full reconciliation
	// calls this.
	EvictStaleBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Get retrieves one mirrored item. Returns domain.ErrNotFound when the
	// id is not mirrored.
	Get(ctx context.Context, id int64) (*domain.InventoryItem, error)

	// List retrieves mirrored items matching the filter, newest upstream
	// update first.
	List(ctx context.Context, filter ItemFilter) ([]domain.InventoryItem, error)

	// Count returns the number of mirrored rows.
	Count(ctx context.Context) (int, error)
}
