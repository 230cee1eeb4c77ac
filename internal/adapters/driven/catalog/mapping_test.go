package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

func TestItemFromPayload_FullRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 321,
		"status": "Available",
		"model": "Galaxy S24",
		"manufacturer": "Samsung",
		"capacity": "256GB",
		"color": "black",
		"grade": "A",
		"location": {"name": "Berlin DC"},
		"warehouse": {"name": "B-12"},
		"cost": "410.50",
		"sale_price": "549.99",
		"created_at": "2026-01-05T08:00:00Z",
		"updated_at": "2026-03-01 09:30:00"
	}`)

	item, err := ItemFromPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.ID != 321 || item.Status != domain.ItemStatusAvailable {
		t.Errorf("unexpected identity: %+v", item)
	}
	if item.Model != "Galaxy S24" || item.Manufacturer != "Samsung" || item.Grade != "A" {
		t.Errorf("unexpected labels: %+v", item)
	}
	if item.LocationName != "Berlin DC" || item.WarehouseName != "B-12" {
		t.Errorf("unexpected locations: %+v", item)
	}
	if item.CostCents != 41050 || item.SalePriceCents != 54999 {
		t.Errorf("unexpected money: cost=%d sale=%d", item.CostCents, item.SalePriceCents)
	}
	if item.SourceCreatedAt == nil || item.SourceUpdatedAt == nil {
		t.Error("expected both timestamps parsed")
	}
	if string(item.Payload) != string(raw) {
		t.Error("raw payload must be preserved verbatim")
	}
}

func TestItemFromPayload_FallbackKeys(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 5,
		"status": "sold",
		"name": "iPhone 13",
		"brand": "Apple",
		"condition": "B+",
		"location_name": "Hamburg",
		"price": 199.5
	}`)

	item, err := ItemFromPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Model != "iPhone 13" || item.Manufacturer != "Apple" || item.Grade != "B+" {
		t.Errorf("fallback keys not applied: %+v", item)
	}
	if item.LocationName != "Hamburg" {
		t.Errorf("flat location_name not applied: %q", item.LocationName)
	}
	if item.SalePriceCents != 19950 {
		t.Errorf("price fallback: got %d", item.SalePriceCents)
	}
}

func TestItemFromPayload_PartialDefaults(t *testing.T) {
	item, err := ItemFromPayload(json.RawMessage(`{"id": 9, "status": "inbound"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Model != "" || item.LocationName != "" {
		t.Errorf("expected empty defaults, got %+v", item)
	}
	if item.CostCents != 0 || item.SalePriceCents != 0 {
		t.Errorf("expected zero money defaults, got %+v", item)
	}
	if item.SourceCreatedAt != nil || item.SourceUpdatedAt != nil {
		t.Error("expected nil timestamps when absent")
	}
}

func TestItemFromPayload_RejectsMissingID(t *testing.T) {
	cases := []string{
		`{"status": "available"}`,
		`{"id": 0}`,
		`{"id": -3}`,
	}
	for _, raw := range cases {
		if _, err := ItemFromPayload(json.RawMessage(raw)); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("payload %s: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestItemFromPayload_InvalidJSON(t *testing.T) {
	if _, err := ItemFromPayload(json.RawMessage(`{truncated`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestCentsFromNumber(t *testing.T) {
	cases := map[string]int64{
		"249.99":  24999,
		"249.995": 25000,
		"100":     10000,
		"0":       0,
		"":        0,
		"n/a":     0,
	}
	for input, want := range cases {
		if got := centsFromNumber(json.Number(input)); got != want {
			t.Errorf("centsFromNumber(%q) = %d, want %d", input, got, want)
		}
	}
}
