package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven/mocks"
)

func TestMirrorService_GetItem(t *testing.T) {
	items := mocks.NewMockItemStore()
	items.Seed(domain.InventoryItem{ID: 42, Model: "Pixel 9"}, time.Now())
	svc := NewMirrorService(items, mocks.NewMockSyncStateStore())

	item, err := svc.GetItem(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Model != "Pixel 9" {
		t.Errorf("unexpected item: %+v", item)
	}

	if _, err := svc.GetItem(context.Background(), 7); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetItem(context.Background(), 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for non-positive id, got %v", err)
	}
}

func TestMirrorService_ListItems_FilterAndLimits(t *testing.T) {
	items := mocks.NewMockItemStore()
	items.Seed(domain.InventoryItem{ID: 1, Status: domain.ItemStatusAvailable}, time.Now())
	items.Seed(domain.InventoryItem{ID: 2, Status: domain.ItemStatusSold}, time.Now())
	svc := NewMirrorService(items, mocks.NewMockSyncStateStore())

	got, err := svc.ListItems(context.Background(), domain.ItemStatusSold, 0, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("unexpected filtered result: %+v", got)
	}
}

func TestMirrorService_Status(t *testing.T) {
	items := mocks.NewMockItemStore()
	items.Seed(domain.InventoryItem{ID: 1}, time.Now())
	items.Seed(domain.InventoryItem{ID: 2}, time.Now())

	syncStore := mocks.NewMockSyncStateStore()
	now := time.Now()
	syncStore.Set(&domain.SyncState{LastFullReconciliationAt: &now, LastFullItemCount: 2})

	svc := NewMirrorService(items, syncStore)
	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", status.ItemCount)
	}
	if status.State.LastFullReconciliationAt == nil {
		t.Error("expected sync state in status")
	}
}
