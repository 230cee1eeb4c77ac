package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint is the compact change-detection record kept per item.
// Hash covers only the fields that matter for change detection; the label
// fields ride along so diff reports stay readable without the full record.
type Fingerprint struct {
	Hash     string `json:"hash"`
	Model    string `json:"model"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

// Snapshot is the fingerprint set of one complete fetch.
// It is replaced wholesale after every successful sync that fetched the full
// item set; there is no incremental merge.
type Snapshot struct {
	SavedAt time.Time             `json:"saved_at"`
	Items   map[int64]Fingerprint `json:"items"`
}

// NewSnapshot builds a snapshot from a complete item set.
func NewSnapshot(items []InventoryItem, savedAt time.Time) *Snapshot {
	snap := &Snapshot{
		SavedAt: savedAt,
		Items:   make(map[int64]Fingerprint, len(items)),
	}
	for i := range items {
		snap.Items[items[i].ID] = FingerprintOf(&items[i])
	}
	return snap
}

// FingerprintOf computes the fingerprint for one item.
//
// The hash is a BLAKE2b digest of the canonical tuple of change-relevant
// fields: status, location, sale price, cost, grade, and the upstream
// updated-at. It is stable across restarts and independent of how the
// upstream ordered its payload. Payload-only changes do not alter it.
func FingerprintOf(item *InventoryItem) Fingerprint {
	updated := ""
	if item.SourceUpdatedAt != nil {
		updated = item.SourceUpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	tuple := fmt.Sprintf("%s|%s|%d|%d|%s|%s",
		item.Status,
		item.LocationName,
		item.SalePriceCents,
		item.CostCents,
		item.Grade,
		updated,
	)
	sum := blake2b.Sum256([]byte(tuple))
	return Fingerprint{
		Hash:     hex.EncodeToString(sum[:16]),
		Model:    item.Label(),
		Location: item.LocationName,
		Status:   string(item.Status),
	}
}
