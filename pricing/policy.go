// Package pricing holds the single source of truth for the charges applied on
// top of a cart subtotal. The cart summary and checkout both quote through it
// so the displayed total is always the charged total.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	DefaultDeliveryFee = decimal.RequireFromString("5.00")
	DefaultDiscount    = decimal.RequireFromString("0.50")
)

// Quote is the breakdown of what a customer pays for a given subtotal.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Policy derives delivery fee and discount for a subtotal.
type Policy interface {
	Quote(subtotal decimal.Decimal) Quote
}

// Fixed applies the same delivery fee and discount to every order.
type Fixed struct {
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
}

// NewFixed returns a Fixed policy; negative amounts are treated as zero.
func NewFixed(deliveryFee, discount decimal.Decimal) Fixed {
	if deliveryFee.IsNegative() {
		deliveryFee = decimal.Zero
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return Fixed{DeliveryFee: deliveryFee, Discount: discount}
}

// Default is the ₹5.00 fee / ₹0.50 discount policy.
func Default() Fixed {
	return NewFixed(DefaultDeliveryFee, DefaultDiscount)
}

// Quote: total = subtotal + fee - discount, never below zero.
func (f Fixed) Quote(subtotal decimal.Decimal) Quote {
	total := subtotal.Add(f.DeliveryFee).Sub(f.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: f.DeliveryFee,
		Discount:    f.Discount,
		Total:       total,
	}
}
