package driving

import (
	"context"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// MirrorStatus is what the status endpoint reports.
type MirrorStatus struct {
	State     *domain.SyncState `json:"state"`
	ItemCount int               `json:"item_count"`
}

// MirrorReader serves read access to the mirrored catalog.
type MirrorReader interface {
	// GetItem retrieves one mirrored item by id.
	GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error)

	// ListItems retrieves mirrored items, optionally filtered by status.
	ListItems(ctx context.Context, status domain.ItemStatus, limit, offset int) ([]domain.InventoryItem, error)

	// Status reports sync state and mirror size.
	Status(ctx context.Context) (*MirrorStatus, error)
}
