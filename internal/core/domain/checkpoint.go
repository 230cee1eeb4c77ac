package domain

import "time"

// Checkpoint records in-progress full-fetch state so an interrupted run can
// resume without re-fetching completed pages.
//
// It is created at the start of a full fetch, overwritten after each completed
// page, and cleared only when the fetch finishes. A checkpoint left behind by
// a crash is the intended recovery path, not stale garbage.
type Checkpoint struct {
	// Items accumulated across all completed pages, including pages of
	// status filters that already finished.
	Items []InventoryItem `json:"items"`

	// Filter is the status filter that was being paged when the checkpoint
	// was written. Resume skips filters that come before it.
	Filter ItemStatus `json:"filter"`

	// LastPage is the last fully completed page index within Filter.
	LastPage int `json:"last_page"`

	// TotalPages is the page count the upstream reported for Filter.
	TotalPages int `json:"total_pages"`

	SavedAt time.Time `json:"saved_at"`
}
