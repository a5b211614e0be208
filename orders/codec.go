package orders

import (
	"encoding/json"
	"fmt"

	"github.com/yeremiapane/zest-order/models"
)

// EncodeItems serializes order lines into the single blob stored with the order.
func EncodeItems(items []models.OrderLineSnapshot) (string, error) {
	normalized := make([]models.OrderLineSnapshot, len(items))
	for i, it := range items {
		if it.Customizations == nil {
			it.Customizations = []string{}
		}
		normalized[i] = it
	}
	b, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("encode order items: %w", err)
	}
	return string(b), nil
}

// DecodeItems is the inverse of EncodeItems.
func DecodeItems(blob string) ([]models.OrderLineSnapshot, error) {
	var items []models.OrderLineSnapshot
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, fmt.Errorf("items blob is null")
	}
	for i := range items {
		if items[i].Customizations == nil {
			items[i].Customizations = []string{}
		}
	}
	return items, nil
}
