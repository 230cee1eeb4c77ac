package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ItemStore = (*ItemStore)(nil)

// upsertBatchSize is how many rows one multi-row upsert statement carries.
// Each batch runs in its own transaction.
const upsertBatchSize = 100

const itemColumns = `id, status, model, manufacturer, capacity, color, grade,
	location_name, warehouse_name, cost_cents, sale_price_cents,
	source_created_at, source_updated_at, payload, last_synced_at`

// ItemStore is the PostgreSQL-backed mirror table.
type ItemStore struct {
	db *DB
}

// NewItemStore creates a PostgreSQL item store.
func NewItemStore(db *DB) *ItemStore {
	return &ItemStore{db: db}
}

// UpsertBatch writes items in chunks of upsertBatchSize, each chunk in one
// transaction. Existing rows are overwritten field-for-field and stamped with
// syncedAt.
func (s *ItemStore) UpsertBatch(ctx context.Context, items []domain.InventoryItem, syncedAt time.Time) error {
	for start := 0; start < len(items); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
			query, args := buildUpsert(chunk, syncedAt)
			_, err := tx.ExecContext(ctx, query, args...)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to upsert items %d..%d: %w", start, end-1, err)
		}
	}
	return nil
}

// buildUpsert assembles one multi-row INSERT ... ON CONFLICT statement.
func buildUpsert(items []domain.InventoryItem, syncedAt time.Time) (string, []any) {
	const fieldsPerRow = 15

	var sb strings.Builder
	sb.WriteString("INSERT INTO inventory_items (")
	sb.WriteString(itemColumns)
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(items)*fieldsPerRow)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * fieldsPerRow
		sb.WriteString("(")
		for j := 1; j <= fieldsPerRow; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+j)
		}
		sb.WriteString(")")

		var payload any
		if len(item.Payload) > 0 {
			payload = []byte(item.Payload)
		}
		args = append(args,
			item.ID,
			string(item.Status),
			item.Model,
			item.Manufacturer,
			item.Capacity,
			item.Color,
			item.Grade,
			item.LocationName,
			item.WarehouseName,
			item.CostCents,
			item.SalePriceCents,
			NullTime(item.SourceCreatedAt),
			NullTime(item.SourceUpdatedAt),
			payload,
			syncedAt,
		)
	}

	sb.WriteString(` ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		model = EXCLUDED.model,
		manufacturer = EXCLUDED.manufacturer,
		capacity = EXCLUDED.capacity,
		color = EXCLUDED.color,
		grade = EXCLUDED.grade,
		location_name = EXCLUDED.location_name,
		warehouse_name = EXCLUDED.warehouse_name,
		cost_cents = EXCLUDED.cost_cents,
		sale_price_cents = EXCLUDED.sale_price_cents,
		source_created_at = EXCLUDED.source_created_at,
		source_updated_at = EXCLUDED.source_updated_at,
		payload = EXCLUDED.payload,
		last_synced_at = EXCLUDED.last_synced_at`)

	return sb.String(), args
}

// EvictStaleBefore deletes rows not touched by the current reconciliation.
func (s *ItemStore) EvictStaleBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE last_synced_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to evict stale items: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count evicted items: %w", err)
	}
	return int(affected), nil
}

// Get retrieves one mirrored item by id.
func (s *ItemStore) Get(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return item, nil
}

// List retrieves mirrored items, newest upstream update first.
func (s *ItemStore) List(ctx context.Context, filter driven.ItemFilter) ([]domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	args := []any{}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	query += " ORDER BY source_updated_at DESC NULLS LAST, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// Count returns the number of mirrored rows.
func (s *ItemStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory_items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.InventoryItem, error) {
	var (
		item      domain.InventoryItem
		status    string
		createdAt sql.NullTime
		updatedAt sql.NullTime
		payload   []byte
	)
	err := row.Scan(
		&item.ID,
		&status,
		&item.Model,
		&item.Manufacturer,
		&item.Capacity,
		&item.Color,
		&item.Grade,
		&item.LocationName,
		&item.WarehouseName,
		&item.CostCents,
		&item.SalePriceCents,
		&createdAt,
		&updatedAt,
		&payload,
		&item.LastSyncedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Status = domain.ItemStatus(status)
	item.SourceCreatedAt = TimePtr(createdAt)
	item.SourceUpdatedAt = TimePtr(updatedAt)
	item.Payload = payload
	return &item, nil
}
