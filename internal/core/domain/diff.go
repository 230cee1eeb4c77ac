package domain

import (
	"sort"
	"time"
)

// DiffEntry describes one item-level change between two snapshots.
// Before/After carry location and status so an operator can read the audit
// trail without pulling full records.
type DiffEntry struct {
	ID     int64        `json:"id"`
	Model  string       `json:"model,omitempty"`
	Before *Fingerprint `json:"before,omitempty"`
	After  *Fingerprint `json:"after,omitempty"`
}

// DiffSummary holds the counts of a diff.
type DiffSummary struct {
	AddedCount     int `json:"added_count"`
	RemovedCount   int `json:"removed_count"`
	ChangedCount   int `json:"changed_count"`
	UnchangedCount int `json:"unchanged_count"`
	TotalBefore    int `json:"total_before"`
	TotalAfter     int `json:"total_after"`
}

// Diff is the classification of two fingerprint snapshots.
type Diff struct {
	ComputedAt time.Time   `json:"computed_at"`
	Added      []DiffEntry `json:"added"`
	Removed    []DiffEntry `json:"removed"`
	Changed    []DiffEntry `json:"changed"`
	Summary    DiffSummary `json:"summary"`
}

// ComputeDiff classifies every item in current against previous.
// It is a pure function of its inputs. previous may be nil (first run),
// in which case everything in current counts as added.
//
// Invariant: UnchangedCount = |current| - AddedCount - ChangedCount, and
// RemovedCount = |previous \ current|; both hold for empty inputs too.
func ComputeDiff(current *Snapshot, previous *Snapshot, now time.Time) *Diff {
	// Slices start empty, not nil, so audit documents serialize the buckets
	// as [] rather than null.
	diff := &Diff{
		ComputedAt: now,
		Added:      []DiffEntry{},
		Removed:    []DiffEntry{},
		Changed:    []DiffEntry{},
	}

	var prev map[int64]Fingerprint
	if previous != nil {
		prev = previous.Items
	}

	for id, fp := range current.Items {
		old, ok := prev[id]
		switch {
		case !ok:
			f := fp
			diff.Added = append(diff.Added, DiffEntry{ID: id, Model: fp.Model, After: &f})
		case old.Hash != fp.Hash:
			before, after := old, fp
			diff.Changed = append(diff.Changed, DiffEntry{ID: id, Model: fp.Model, Before: &before, After: &after})
		}
	}

	for id, fp := range prev {
		if _, ok := current.Items[id]; !ok {
			f := fp
			diff.Removed = append(diff.Removed, DiffEntry{ID: id, Model: fp.Model, Before: &f})
		}
	}

	sortEntries(diff.Added)
	sortEntries(diff.Removed)
	sortEntries(diff.Changed)

	diff.Summary = DiffSummary{
		AddedCount:     len(diff.Added),
		RemovedCount:   len(diff.Removed),
		ChangedCount:   len(diff.Changed),
		UnchangedCount: len(current.Items) - len(diff.Added) - len(diff.Changed),
		TotalBefore:    len(prev),
		TotalAfter:     len(current.Items),
	}
	return diff
}

func sortEntries(entries []DiffEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}
