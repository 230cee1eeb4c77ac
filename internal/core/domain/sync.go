package domain

import "time"

// SyncMode selects how much of the catalog a run fetches.
// The mode is chosen fresh on every invocation; nothing persists it.
type SyncMode string

const (
	// SyncModeDelta fetches only items updated after the watermark.
	SyncModeDelta SyncMode = "delta"

	// SyncModeFull fetches the entire filtered catalog and evicts stale rows.
	SyncModeFull SyncMode = "full"
)

// SyncState is the process-wide singleton that drives mode selection.
// It is read once at the start of every run and written exactly once at the
// end of a successful run, never partially in between, so a crash cannot
// leave mode selection confused.
type SyncState struct {
	LastDeltaSyncAt          *time.Time `json:"last_delta_sync_at,omitempty"`
	LastFullReconciliationAt *time.Time `json:"last_full_reconciliation_at,omitempty"`
	LastDeltaItemCount       int        `json:"last_delta_item_count"`
	LastFullItemCount        int        `json:"last_full_item_count"`
	LastFullRemovedCount     int        `json:"last_full_removed_count"`
}

// ChooseMode picks full reconciliation when the caller forces it, when no
// full reconciliation has ever completed, or when the last one is older than
// fullInterval. Otherwise delta.
func (s *SyncState) ChooseMode(now time.Time, fullInterval time.Duration, force bool) SyncMode {
	if force {
		return SyncModeFull
	}
	if s == nil || s.LastFullReconciliationAt == nil {
		return SyncModeFull
	}
	if now.Sub(*s.LastFullReconciliationAt) > fullInterval {
		return SyncModeFull
	}
	return SyncModeDelta
}

// SyncReport is the structured result of one run, surfaced to the scheduler
// and the status endpoint. Failed pages are always reported, even when the
// run as a whole succeeded.
type SyncReport struct {
	Mode        SyncMode     `json:"mode"`
	StartedAt   time.Time    `json:"started_at"`
	Duration    float64      `json:"duration_seconds"`
	ItemCount   int          `json:"item_count"`
	FailedPages int          `json:"failed_pages"`
	Removed     int          `json:"removed"`
	Diff        *DiffSummary `json:"diff,omitempty"`
}
