package cart

import "github.com/shopspring/decimal"

// Kind groups customizations the way the menu screen shows them.
type Kind string

const (
	KindTopping Kind = "topping"
	KindSide    Kind = "side"
	KindSize    Kind = "size"
	KindCrust   Kind = "crust"
	KindOther   Kind = "other"
)

// ParseKind maps a catalog type string to a Kind. Unknown values become KindOther.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindTopping, KindSide, KindSize, KindCrust:
		return Kind(s)
	}
	return KindOther
}

// Customization adalah opsi tambahan untuk satu menu (topping, side, dll).
type Customization struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Kind  Kind            `json:"kind"`
}

// dedupe keeps the first occurrence of every customization id, preserving order.
func dedupe(cs []Customization) []Customization {
	if len(cs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(cs))
	out := make([]Customization, 0, len(cs))
	for _, c := range cs {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
