package orders

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/models"
	"github.com/yeremiapane/zest-order/pricing"
)

const (
	DefaultPaymentMethod   = "UPI"
	DefaultDeliveryAddress = "Not provided"
)

// CheckoutRequest carries what the session knows at payment confirmation.
type CheckoutRequest struct {
	UserID          string
	TransactionID   string
	PaymentMethod   string
	DeliveryAddress string
}

// OrderDraft is a completed cart that has not been persisted yet.
type OrderDraft struct {
	UserID          string
	Items           []models.OrderLineSnapshot
	Quote           pricing.Quote
	TransactionID   string
	PaymentMethod   string
	DeliveryAddress string
	OrderDate       time.Time
}

// NewDraft freezes the snapshot lines and applies the pricing quote.
func NewDraft(snap cart.Snapshot, quote pricing.Quote, req CheckoutRequest, now time.Time) OrderDraft {
	items := make([]models.OrderLineSnapshot, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		items = append(items, models.OrderLineSnapshot{
			MenuID:             l.MenuItemID,
			Name:               l.Name,
			Quantity:           l.Quantity,
			Price:              l.UnitPrice,
			CustomizationPrice: l.UnitTotal().Sub(l.UnitPrice),
			Customizations:     l.CustomizationNames(),
		})
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = DefaultPaymentMethod
	}

	return OrderDraft{
		UserID:          strings.TrimSpace(req.UserID),
		Items:           items,
		Quote:           quote,
		TransactionID:   strings.TrimSpace(req.TransactionID),
		PaymentMethod:   method,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		OrderDate:       now.UTC(),
	}
}

// Validate checks every required field. It never performs I/O.
func (d OrderDraft) Validate() error {
	if len(d.Items) == 0 {
		return ValidationError{Field: "items", Message: "cart is empty, nothing to checkout"}
	}
	if d.TransactionID == "" {
		return ValidationError{Field: "transaction_id", Message: "please enter the transaction id of your payment"}
	}
	if len(d.TransactionID) > 100 {
		return ValidationError{Field: "transaction_id", Message: "transaction id must be at most 100 characters"}
	}
	if d.UserID == "" {
		return ValidationError{Field: "user_id", Message: "user not found"}
	}
	if d.DeliveryAddress == "" {
		return ValidationError{Field: "delivery_address", Message: "delivery address is required"}
	}
	for _, it := range d.Items {
		if it.Quantity < 1 {
			return ValidationError{Field: "items", Message: "quantity must be at least 1 for " + it.Name}
		}
		if it.Price.IsNegative() || it.CustomizationPrice.IsNegative() {
			return ValidationError{Field: "items", Message: "price must not be negative for item " + it.Name}
		}
	}
	if d.Quote.Total.IsNegative() {
		return ValidationError{Field: "total_amount", Message: "total must not be negative"}
	}
	return nil
}

// Row converts the draft to the persisted shape. ID and CreatedAt are left to
// the repository.
func (d OrderDraft) Row() (*models.Order, error) {
	blob, err := EncodeItems(d.Items)
	if err != nil {
		return nil, err
	}
	return &models.Order{
		UserID:          d.UserID,
		Items:           blob,
		Subtotal:        d.Quote.Subtotal,
		DeliveryFee:     d.Quote.DeliveryFee,
		Discount:        d.Quote.Discount,
		TotalAmount:     d.Quote.Total,
		TransactionID:   d.TransactionID,
		PaymentMethod:   d.PaymentMethod,
		DeliveryAddress: d.DeliveryAddress,
		Status:          models.OrderStatusPending,
		OrderDate:       d.OrderDate,
	}, nil
}

// Order is a persisted order with its items decoded.
type Order struct {
	ID              string                     `json:"id"`
	UserID          string                     `json:"user_id"`
	Items           []models.OrderLineSnapshot `json:"items"`
	Subtotal        decimal.Decimal            `json:"subtotal"`
	DeliveryFee     decimal.Decimal            `json:"delivery_fee"`
	Discount        decimal.Decimal            `json:"discount"`
	TotalAmount     decimal.Decimal            `json:"total_amount"`
	TransactionID   string                     `json:"transaction_id"`
	PaymentMethod   string                     `json:"payment_method"`
	DeliveryAddress string                     `json:"delivery_address"`
	Status          models.OrderStatus         `json:"status"`
	OrderDate       time.Time                  `json:"order_date"`
	CreatedAt       time.Time                  `json:"created_at"`
	// Degraded is set when the stored items could not be decoded.
	Degraded bool `json:"degraded,omitempty"`
}

// ItemCount is the sum of quantities across lines.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// FromRow decodes a stored row. On a decode failure the order is still
// returned, marked Degraded with no items, together with a *DeserializationError.
func FromRow(row models.Order) (Order, error) {
	o := Order{
		ID:              row.ID,
		UserID:          row.UserID,
		Subtotal:        row.Subtotal,
		DeliveryFee:     row.DeliveryFee,
		Discount:        row.Discount,
		TotalAmount:     row.TotalAmount,
		TransactionID:   row.TransactionID,
		PaymentMethod:   row.PaymentMethod,
		DeliveryAddress: row.DeliveryAddress,
		Status:          row.Status,
		OrderDate:       row.OrderDate,
		CreatedAt:       row.CreatedAt,
	}
	items, err := DecodeItems(row.Items)
	if err != nil {
		o.Items = []models.OrderLineSnapshot{}
		o.Degraded = true
		return o, &DeserializationError{OrderID: row.ID, Err: err}
	}
	o.Items = items
	return o, nil
}
