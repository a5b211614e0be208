package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_ToggleTwiceRemoves(t *testing.T) {
	var sel Selection

	assert.True(t, sel.Toggle(cheese))
	assert.True(t, sel.Toggle(fries))
	assert.True(t, sel.IsSelected(cheese.ID))

	assert.False(t, sel.Toggle(cheese))
	assert.False(t, sel.IsSelected(cheese.ID))

	assert.Equal(t, []Customization{fries}, sel.Items())
	assert.True(t, rupees("165.50").Equal(sel.UnitPrice(rupees("120"))))
}

func TestSelection_KeepsPickOrder(t *testing.T) {
	var sel Selection
	sel.Toggle(onion)
	sel.Toggle(cheese)
	sel.Toggle(fries)
	sel.Toggle(cheese)
	sel.Toggle(cheese)

	items := sel.Items()
	assert.Equal(t, []string{"Onion", "Fries", "Cheese"}, []string{items[0].Name, items[1].Name, items[2].Name})
}

func TestSelection_FeedsStore(t *testing.T) {
	s := NewStore()

	var first, second Selection
	first.Toggle(cheese)
	first.Toggle(onion)
	second.Toggle(onion)
	second.Toggle(fries)
	second.Toggle(fries)
	second.Toggle(cheese)

	a := s.AddItem(burgerID, "Veg Burger", rupees("120"), first.Items())
	b := s.AddItem(burgerID, "Veg Burger", rupees("120"), second.Items())

	assert.Equal(t, a, b)
	assert.Equal(t, 2, s.TotalItems())
	assert.True(t, rupees("300").Equal(s.TotalPrice()))
}
