package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFingerprintOf_Deterministic(t *testing.T) {
	item := testItem(1, ItemStatusAvailable, "berlin", 24999)

	first := FingerprintOf(&item)
	second := FingerprintOf(&item)

	if first.Hash != second.Hash {
		t.Errorf("fingerprint not deterministic: %q vs %q", first.Hash, second.Hash)
	}
	if first.Hash == "" {
		t.Error("expected non-empty hash")
	}
}

func TestFingerprintOf_SensitiveFields(t *testing.T) {
	base := testItem(1, ItemStatusAvailable, "berlin", 24999)
	baseFP := FingerprintOf(&base)

	mutations := map[string]func(*InventoryItem){
		"status":     func(i *InventoryItem) { i.Status = ItemStatusSold },
		"location":   func(i *InventoryItem) { i.LocationName = "hamburg" },
		"sale price": func(i *InventoryItem) { i.SalePriceCents = 19999 },
		"cost":       func(i *InventoryItem) { i.CostCents = 100 },
		"grade":      func(i *InventoryItem) { i.Grade = "B" },
		"updated at": func(i *InventoryItem) {
			later := i.SourceUpdatedAt.Add(time.Minute)
			i.SourceUpdatedAt = &later
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			item := base
			mutate(&item)
			if FingerprintOf(&item).Hash == baseFP.Hash {
				t.Errorf("changing %s did not change the hash", name)
			}
		})
	}
}

func TestFingerprintOf_PayloadInvisible(t *testing.T) {
	item := testItem(1, ItemStatusAvailable, "berlin", 24999)
	item.Payload = json.RawMessage(`{"note":"a"}`)
	first := FingerprintOf(&item)

	item.Payload = json.RawMessage(`{"note":"b","extra":true}`)
	second := FingerprintOf(&item)

	if first.Hash != second.Hash {
		t.Error("payload-only change should not alter the fingerprint")
	}
}

func TestFingerprintOf_NilUpdatedAt(t *testing.T) {
	item := testItem(1, ItemStatusAvailable, "berlin", 24999)
	item.SourceUpdatedAt = nil

	fp := FingerprintOf(&item)
	if fp.Hash == "" {
		t.Error("expected hash for item without updated-at")
	}
}

func TestNewSnapshot(t *testing.T) {
	now := time.Now()
	items := []InventoryItem{
		testItem(1, ItemStatusAvailable, "berlin", 100),
		testItem(2, ItemStatusSold, "hamburg", 200),
	}

	snap := NewSnapshot(items, now)

	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 fingerprints, got %d", len(snap.Items))
	}
	if !snap.SavedAt.Equal(now) {
		t.Errorf("unexpected SavedAt: %v", snap.SavedAt)
	}
	fp, ok := snap.Items[2]
	if !ok {
		t.Fatal("missing fingerprint for item 2")
	}
	if fp.Status != string(ItemStatusSold) || fp.Location != "hamburg" {
		t.Errorf("unexpected fingerprint labels: %+v", fp)
	}
}
