package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func testItem(id int64, status ItemStatus, location string, price int64) InventoryItem {
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return InventoryItem{
		ID:              id,
		Status:          status,
		Model:           fmt.Sprintf("Model-%d", id),
		Manufacturer:    "Acme",
		LocationName:    location,
		SalePriceCents:  price,
		SourceUpdatedAt: &updated,
	}
}

func TestComputeDiff_Classification(t *testing.T) {
	now := time.Now()

	// Previous holds A{1,2,3}; current holds {2,3',4}: 1 removed, 4 added,
	// 3 changed, 2 unchanged.
	prevItems := []InventoryItem{
		testItem(1, ItemStatusAvailable, "berlin", 10000),
		testItem(2, ItemStatusAvailable, "berlin", 20000),
		testItem(3, ItemStatusAvailable, "berlin", 30000),
	}
	changed := testItem(3, ItemStatusAvailable, "hamburg", 30000)
	currItems := []InventoryItem{
		testItem(2, ItemStatusAvailable, "berlin", 20000),
		changed,
		testItem(4, ItemStatusInbound, "berlin", 40000),
	}

	previous := NewSnapshot(prevItems, now.Add(-time.Hour))
	current := NewSnapshot(currItems, now)

	diff := ComputeDiff(current, previous, now)

	if diff.Summary.AddedCount != 1 || diff.Added[0].ID != 4 {
		t.Errorf("expected item 4 added, got %+v", diff.Added)
	}
	if diff.Summary.RemovedCount != 1 || diff.Removed[0].ID != 1 {
		t.Errorf("expected item 1 removed, got %+v", diff.Removed)
	}
	if diff.Summary.ChangedCount != 1 || diff.Changed[0].ID != 3 {
		t.Errorf("expected item 3 changed, got %+v", diff.Changed)
	}
	if diff.Summary.UnchangedCount != 1 {
		t.Errorf("expected 1 unchanged, got %d", diff.Summary.UnchangedCount)
	}
	if diff.Summary.TotalBefore != 3 || diff.Summary.TotalAfter != 3 {
		t.Errorf("unexpected totals: %+v", diff.Summary)
	}

	// Changed entries carry both sides for the audit trail.
	if diff.Changed[0].Before == nil || diff.Changed[0].After == nil {
		t.Fatal("expected changed entry to carry before and after fingerprints")
	}
	if diff.Changed[0].Before.Location != "berlin" || diff.Changed[0].After.Location != "hamburg" {
		t.Errorf("unexpected locations: before=%q after=%q",
			diff.Changed[0].Before.Location, diff.Changed[0].After.Location)
	}
}

func TestComputeDiff_SelfDiffIsNull(t *testing.T) {
	now := time.Now()
	items := []InventoryItem{
		testItem(1, ItemStatusAvailable, "berlin", 10000),
		testItem(2, ItemStatusSold, "hamburg", 20000),
	}
	snap := NewSnapshot(items, now)

	diff := ComputeDiff(snap, snap, now)

	if diff.Summary.AddedCount != 0 || diff.Summary.RemovedCount != 0 || diff.Summary.ChangedCount != 0 {
		t.Errorf("expected null diff, got %+v", diff.Summary)
	}
	if diff.Summary.UnchangedCount != 2 {
		t.Errorf("expected 2 unchanged, got %d", diff.Summary.UnchangedCount)
	}
}

func TestComputeDiff_NilPrevious(t *testing.T) {
	now := time.Now()
	items := []InventoryItem{
		testItem(1, ItemStatusAvailable, "berlin", 10000),
		testItem(2, ItemStatusAvailable, "berlin", 20000),
	}
	current := NewSnapshot(items, now)

	diff := ComputeDiff(current, nil, now)

	if diff.Summary.AddedCount != 2 {
		t.Errorf("expected everything added on first run, got %d", diff.Summary.AddedCount)
	}
	if diff.Summary.RemovedCount != 0 || diff.Summary.UnchangedCount != 0 {
		t.Errorf("unexpected summary: %+v", diff.Summary)
	}
}

func TestComputeDiff_EmptySnapshots(t *testing.T) {
	now := time.Now()
	empty := NewSnapshot(nil, now)

	diff := ComputeDiff(empty, empty, now)

	if diff.Summary.AddedCount != 0 || diff.Summary.RemovedCount != 0 ||
		diff.Summary.ChangedCount != 0 || diff.Summary.UnchangedCount != 0 {
		t.Errorf("expected all-zero summary, got %+v", diff.Summary)
	}
}

func TestComputeDiff_CountIdentity(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		prev []InventoryItem
		curr []InventoryItem
	}{
		{"disjoint", []InventoryItem{testItem(1, ItemStatusAvailable, "a", 1)},
			[]InventoryItem{testItem(2, ItemStatusAvailable, "a", 1)}},
		{"empty previous", nil,
			[]InventoryItem{testItem(1, ItemStatusAvailable, "a", 1)}},
		{"empty current", []InventoryItem{testItem(1, ItemStatusAvailable, "a", 1)},
			nil},
		{"overlap with change",
			[]InventoryItem{testItem(1, ItemStatusAvailable, "a", 1), testItem(2, ItemStatusAvailable, "a", 1)},
			[]InventoryItem{testItem(1, ItemStatusSold, "a", 1), testItem(2, ItemStatusAvailable, "a", 1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diff := ComputeDiff(NewSnapshot(tc.curr, now), NewSnapshot(tc.prev, now.Add(-time.Hour)), now)
			got := diff.Summary.UnchangedCount
			want := len(tc.curr) - diff.Summary.AddedCount - diff.Summary.ChangedCount
			if got != want {
				t.Errorf("unchanged = %d, want %d (summary %+v)", got, want, diff.Summary)
			}
		})
	}
}

func TestComputeDiff_EmptyBucketsSerializeAsArrays(t *testing.T) {
	now := time.Now()
	empty := NewSnapshot(nil, now)

	diff := ComputeDiff(empty, empty, now)

	data, err := json.Marshal(diff)
	if err != nil {
		t.Fatalf("marshal diff: %v", err)
	}
	for _, bucket := range []string{`"added":[]`, `"removed":[]`, `"changed":[]`} {
		if !strings.Contains(string(data), bucket) {
			t.Errorf("expected %s in audit JSON, got %s", bucket, data)
		}
	}
}

func TestComputeDiff_EntriesSortedByID(t *testing.T) {
	now := time.Now()
	curr := []InventoryItem{
		testItem(9, ItemStatusAvailable, "a", 1),
		testItem(3, ItemStatusAvailable, "a", 1),
		testItem(7, ItemStatusAvailable, "a", 1),
	}

	diff := ComputeDiff(NewSnapshot(curr, now), nil, now)

	for i := 1; i < len(diff.Added); i++ {
		if diff.Added[i-1].ID >= diff.Added[i].ID {
			t.Fatalf("added entries not sorted: %+v", diff.Added)
		}
	}
}
