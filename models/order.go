package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal: delivered and cancelled orders do not move any more.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Label is the text shown in history and on receipts.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusConfirmed:
		return "Confirmed"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// OrderLineSnapshot is the frozen copy of a cart line taken at checkout.
// Price is the menu item's unit price; CustomizationPrice is what the chosen
// customizations add per unit. Customizations are listed by name only.
type OrderLineSnapshot struct {
	MenuID             string          `json:"menu_id"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	CustomizationPrice decimal.Decimal `json:"customization_price"`
	Customizations     []string        `json:"customizations"`
}

// LineTotal = quantity × price, the amount printed on the receipt line.
func (s OrderLineSnapshot) LineTotal() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// ChargedTotal is what the line contributed to the order subtotal.
func (s OrderLineSnapshot) ChargedTotal() decimal.Decimal {
	return s.Price.Add(s.CustomizationPrice).Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// Order row. Items holds the encoded []OrderLineSnapshot; status changes are
// made by the order management process, never here.
type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Items           string          `gorm:"type:text;not null" json:"-"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Discount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	TransactionID   string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"transaction_id"`
	PaymentMethod   string          `gorm:"type:varchar(30);not null" json:"payment_method"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	OrderDate       time.Time       `gorm:"not null" json:"order_date"`
	CreatedAt       time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}
