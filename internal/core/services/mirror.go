package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.MirrorReader = (*MirrorService)(nil)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// MirrorService serves read access to the mirrored catalog. It never writes;
// the sync engine is the only writer.
type MirrorService struct {
	items     driven.ItemStore
	syncStore driven.SyncStateStore
}

// NewMirrorService creates a new mirror read service.
func NewMirrorService(items driven.ItemStore, syncStore driven.SyncStateStore) *MirrorService {
	return &MirrorService{items: items, syncStore: syncStore}
}

// GetItem retrieves one mirrored item by id.
func (s *MirrorService) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.items.Get(ctx, id)
}

// ListItems retrieves mirrored items, optionally filtered by status.
func (s *MirrorService) ListItems(ctx context.Context, status domain.ItemStatus, limit, offset int) ([]domain.InventoryItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.items.List(ctx, driven.ItemFilter{Status: status, Limit: limit, Offset: offset})
}

// Status reports sync state and mirror size.
func (s *MirrorService) Status(ctx context.Context) (*driving.MirrorStatus, error) {
	state, err := s.syncStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sync state: %w", err)
	}
	count, err := s.items.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	return &driving.MirrorStatus{State: state, ItemCount: count}, nil
}
