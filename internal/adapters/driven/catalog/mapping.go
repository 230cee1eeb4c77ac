package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// payloadItem is the loosely-shaped upstream record. Several fields appear
// under more than one key depending on the upstream's endpoint version, so
// the mapper reads every known spelling.
type payloadItem struct {
	ID           json.Number `json:"id"`
	Status       string      `json:"status"`
	Model        string      `json:"model"`
	Name         string      `json:"name"`
	Manufacturer string      `json:"manufacturer"`
	Brand        string      `json:"brand"`
	Capacity     string      `json:"capacity"`
	Color        string      `json:"color"`
	Grade        string      `json:"grade"`
	Condition    string      `json:"condition"`

	LocationName string `json:"location_name"`
	Location     *struct {
		Name string `json:"name"`
	} `json:"location"`

	WarehouseName string `json:"warehouse_name"`
	Warehouse     *struct {
		Name string `json:"name"`
	} `json:"warehouse"`

	Cost      json.Number `json:"cost"`
	SalePrice json.Number `json:"sale_price"`
	Price     json.Number `json:"price"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ItemFromPayload maps one raw upstream record to an InventoryItem.
//
// Defaults when the payload is partial:
//   - model:         "model", falling back to "name", else empty
//   - manufacturer:  "manufacturer", falling back to "brand", else empty
//   - grade:         "grade", falling back to "condition", else empty
//   - location:      nested "location.name", falling back to flat
//     "location_name", else empty; warehouse likewise
//   - sale price:    "sale_price", falling back to "price", else 0
//   - cost:          "cost", else 0
//   - timestamps:    nil when absent or unparseable
//
// A record without a positive integer id cannot be keyed and is rejected.
// The raw payload is preserved verbatim on the item.
func ItemFromPayload(raw json.RawMessage) (domain.InventoryItem, error) {
	var p payloadItem
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.InventoryItem{}, fmt.Errorf("decode item payload: %w", err)
	}

	id, err := p.ID.Int64()
	if err != nil || id <= 0 {
		return domain.InventoryItem{}, fmt.Errorf("item payload has no usable id: %w", domain.ErrInvalidInput)
	}

	item := domain.InventoryItem{
		ID:             id,
		Status:         domain.ParseItemStatus(p.Status),
		Model:          firstNonEmpty(p.Model, p.Name),
		Manufacturer:   firstNonEmpty(p.Manufacturer, p.Brand),
		Capacity:       strings.TrimSpace(p.Capacity),
		Color:          strings.TrimSpace(p.Color),
		Grade:          firstNonEmpty(p.Grade, p.Condition),
		CostCents:      centsFromNumber(p.Cost),
		SalePriceCents: centsFromNumber(firstNonEmptyNumber(p.SalePrice, p.Price)),
		Payload:        raw,
	}

	if p.Location != nil && strings.TrimSpace(p.Location.Name) != "" {
		item.LocationName = strings.TrimSpace(p.Location.Name)
	} else {
		item.LocationName = strings.TrimSpace(p.LocationName)
	}
	if p.Warehouse != nil && strings.TrimSpace(p.Warehouse.Name) != "" {
		item.WarehouseName = strings.TrimSpace(p.Warehouse.Name)
	} else {
		item.WarehouseName = strings.TrimSpace(p.WarehouseName)
	}

	item.SourceCreatedAt = parseTime(p.CreatedAt)
	item.SourceUpdatedAt = parseTime(p.UpdatedAt)

	return item, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstNonEmptyNumber(values ...json.Number) json.Number {
	for _, v := range values {
		if v.String() != "" {
			return v
		}
	}
	return ""
}

// centsFromNumber converts a decimal money amount ("249.99") to integer
// cents, rounding half away from zero. Empty or unparseable amounts are 0.
func centsFromNumber(n json.Number) int64 {
	if n.String() == "" {
		return 0
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func parseTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
