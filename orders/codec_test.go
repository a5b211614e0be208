package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/zest-order/models"
)

func TestItemsRoundTrip(t *testing.T) {
	items := []models.OrderLineSnapshot{
		{MenuID: "1", Name: "Veg Burger", Quantity: 2, Price: rupees("140.50"), Customizations: []string{"Cheese", "Onion"}},
		{MenuID: "7", Name: "Masala Chai", Quantity: 1, Price: rupees("30"), Customizations: nil},
		{MenuID: "9", Name: "Lassi", Quantity: 3, Price: rupees("0.333"), Customizations: []string{}},
	}

	blob, err := EncodeItems(items)
	require.NoError(t, err)

	got, err := DecodeItems(blob)
	require.NoError(t, err)
	require.Len(t, got, len(items))

	for i := range items {
		assert.Equal(t, items[i].MenuID, got[i].MenuID)
		assert.Equal(t, items[i].Name, got[i].Name)
		assert.Equal(t, items[i].Quantity, got[i].Quantity)
		assert.True(t, items[i].Price.Equal(got[i].Price), "price %d: %s != %s", i, items[i].Price, got[i].Price)
	}
	assert.Equal(t, []string{"Cheese", "Onion"}, got[0].Customizations)
	// zero customizations come back as an empty list, never nil
	assert.NotNil(t, got[1].Customizations)
	assert.Empty(t, got[1].Customizations)
	assert.Empty(t, got[2].Customizations)
}

func TestEncodeItems_NilCustomizationsEncodeAsEmptyList(t *testing.T) {
	blob, err := EncodeItems([]models.OrderLineSnapshot{{MenuID: "1", Name: "Fries", Quantity: 1, Price: rupees("60")}})
	require.NoError(t, err)
	assert.Contains(t, blob, `"customizations":[]`)
}

func TestDecodeItems_Invalid(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "{{{"},
		{"null", "null"},
		{"object instead of list", `{"name":"x"}`},
		{"bad price", `[{"menu_id":"1","name":"x","quantity":1,"price":"abc"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeItems(tt.blob)
			assert.Error(t, err)
		})
	}
}
