package fsstate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	updated := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := []domain.InventoryItem{
		{ID: 1, Status: domain.ItemStatusAvailable, SourceUpdatedAt: &updated},
		{ID: 2, Status: domain.ItemStatusSold, SourceUpdatedAt: &updated},
	}
	snap := domain.NewSnapshot(items, time.Now().UTC())

	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded == nil || len(loaded.Items) != 2 {
		t.Fatalf("unexpected snapshot: %+v", loaded)
	}
	if loaded.Items[1].Hash != snap.Items[1].Hash {
		t.Error("fingerprint hashes must survive the round trip")
	}
}

func TestSnapshotStore_LoadAbsent(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil for absent snapshot, got %+v", snap)
	}
}

func TestSnapshotStore_CorruptTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, snapshotFile), []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt snapshot must not error: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil for corrupt snapshot, got %+v", snap)
	}
}
