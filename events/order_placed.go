package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPlacedEvent   = "OrderPlaced"
	OrderPlacedVersion = 1
	OrderPlacedQueue   = "order.placed"
)

type OrderPlacedItem struct {
	MenuID             string          `json:"menuId"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	CustomizationPrice decimal.Decimal `json:"customizationPrice"`
	Customizations     []string        `json:"customizations"`
}

// OrderPlaced is emitted once an order has been persisted. The order
// management process moves it through confirmed/delivered/cancelled.
type OrderPlaced struct {
	OrderID         string            `json:"orderId"`
	UserID          string            `json:"userId"`
	TransactionID   string            `json:"transactionId"`
	PaymentMethod   string            `json:"paymentMethod"`
	DeliveryAddress string            `json:"deliveryAddress"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Items           []OrderPlacedItem `json:"items"`
	PlacedAt        time.Time         `json:"placedAt"`
}
