package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore persists the sync state singleton in its own table.
type SyncStateStore struct {
	db *DB
}

// NewSyncStateStore creates a PostgreSQL sync state store.
func NewSyncStateStore(db *DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

// Load returns the singleton row, or a zero-value state when no run has ever
// completed.
func (s *SyncStateStore) Load(ctx context.Context) (*domain.SyncState, error) {
	var (
		state   domain.SyncState
		deltaAt sql.NullTime
		fullAt  sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT last_delta_sync_at, last_full_reconciliation_at,
		       last_delta_item_count, last_full_item_count, last_full_removed_count
		FROM sync_state WHERE id = 1`).Scan(
		&deltaAt, &fullAt,
		&state.LastDeltaItemCount, &state.LastFullItemCount, &state.LastFullRemovedCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.SyncState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sync state: %w", err)
	}
	state.LastDeltaSyncAt = TimePtr(deltaAt)
	state.LastFullReconciliationAt = TimePtr(fullAt)
	return &state, nil
}

// Save replaces the singleton row.
func (s *SyncStateStore) Save(ctx context.Context, state *domain.SyncState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (
			id, last_delta_sync_at, last_full_reconciliation_at,
			last_delta_item_count, last_full_item_count, last_full_removed_count,
			updated_at
		) VALUES (1, $1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			last_delta_sync_at = EXCLUDED.last_delta_sync_at,
			last_full_reconciliation_at = EXCLUDED.last_full_reconciliation_at,
			last_delta_item_count = EXCLUDED.last_delta_item_count,
			last_full_item_count = EXCLUDED.last_full_item_count,
			last_full_removed_count = EXCLUDED.last_full_removed_count,
			updated_at = now()`,
		NullTime(state.LastDeltaSyncAt),
		NullTime(state.LastFullReconciliationAt),
		state.LastDeltaItemCount,
		state.LastFullItemCount,
		state.LastFullRemovedCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}
