package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ItemStatus is the lifecycle tag the upstream catalog assigns to a unit.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusInbound   ItemStatus = "inbound"
	ItemStatusSold      ItemStatus = "sold"
)

// SyncedStatuses are the statuses a full reconciliation fetches.
// Sold units are fetched too so the mirror can serve sales history.
var SyncedStatuses = []ItemStatus{ItemStatusAvailable, ItemStatusInbound, ItemStatusSold}

// ParseItemStatus normalises an upstream status label.
func ParseItemStatus(s string) ItemStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available", "in stock", "in_stock":
		return ItemStatusAvailable
	case "inbound", "incoming", "in transit", "in_transit":
		return ItemStatusInbound
	case "sold", "shipped":
		return ItemStatusSold
	default:
		return ItemStatus(strings.ToLower(strings.TrimSpace(s)))
	}
}

// InventoryItem is one unit mirrored from the upstream catalog.
// The mirror owns these rows exclusively: every sync that touches an item
// overwrites it wholesale, and nothing else mutates them.
type InventoryItem struct {
	ID              int64      `json:"id"`
	Status          ItemStatus `json:"status"`
	Model           string     `json:"model"`
	Manufacturer    string     `json:"manufacturer"`
	Capacity        string     `json:"capacity"`
	Color           string     `json:"color"`
	Grade           string     `json:"grade"`
	LocationName    string     `json:"location_name"`
	WarehouseName   string     `json:"warehouse_name"`
	CostCents       int64      `json:"cost_cents"`
	SalePriceCents  int64      `json:"sale_price_cents"`
	SourceCreatedAt *time.Time `json:"source_created_at,omitempty"`
	SourceUpdatedAt *time.Time `json:"source_updated_at,omitempty"`

	// Payload carries the full upstream record for fields not individually
	// modelled. Changes confined to it are invisible to change detection.
	Payload json.RawMessage `json:"payload,omitempty"`

	// LastSyncedAt is set by the persistence layer on every upsert and is
	// the timestamp eviction compares against.
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// DedupeItems collapses duplicate IDs in a fetched item set, keeping the
// last occurrence. A unit whose status changes mid-fetch is served under two
// status filters, and upstream pagination drift can re-serve a row; a
// multi-row upsert cannot touch the same ID twice.
func DedupeItems(items []InventoryItem) []InventoryItem {
	seen := make(map[int64]int, len(items))
	result := make([]InventoryItem, 0, len(items))
	for _, item := range items {
		if pos, ok := seen[item.ID]; ok {
			result[pos] = item
			continue
		}
		seen[item.ID] = len(result)
		result = append(result, item)
	}
	return result
}

// Label returns a short human-readable description used in diff reports.
func (i *InventoryItem) Label() string {
	parts := make([]string, 0, 3)
	if i.Manufacturer != "" {
		parts = append(parts, i.Manufacturer)
	}
	if i.Model != "" {
		parts = append(parts, i.Model)
	}
	if i.Capacity != "" {
		parts = append(parts, i.Capacity)
	}
	return strings.Join(parts, " ")
}
