package cart

import "github.com/shopspring/decimal"

// Selection tracks the customizations picked on the menu detail screen.
// Picking the same customization twice toggles it off.
type Selection struct {
	items []Customization
}

// Toggle adds c, or removes it when already selected. Reports whether c is
// selected afterwards.
func (s *Selection) Toggle(c Customization) bool {
	for i, existing := range s.items {
		if existing.ID == c.ID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return false
		}
	}
	s.items = append(s.items, c)
	return true
}

// IsSelected reports whether the customization id is in the selection.
func (s *Selection) IsSelected(id string) bool {
	for _, c := range s.items {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Items returns the selection in the order it was made.
func (s *Selection) Items() []Customization {
	return append([]Customization(nil), s.items...)
}

// UnitPrice = base + Σ selected customization prices.
func (s *Selection) UnitPrice(base decimal.Decimal) decimal.Decimal {
	total := base
	for _, c := range s.items {
		total = total.Add(c.Price)
	}
	return total
}
