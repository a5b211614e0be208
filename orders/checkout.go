package orders

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/yeremiapane/zest-order/cart"
	"github.com/yeremiapane/zest-order/events"
	"github.com/yeremiapane/zest-order/pricing"
)

// Checkout turns a user's cart into a persisted order.
type Checkout struct {
	repo      Repository
	policy    pricing.Policy
	publisher events.Publisher
	log       logrus.FieldLogger
	now       func() time.Time

	group singleflight.Group
	users userLocks
}

type CheckoutOption func(*Checkout)

func WithPublisher(p events.Publisher) CheckoutOption {
	return func(c *Checkout) { c.publisher = p }
}

func WithCheckoutLogger(l logrus.FieldLogger) CheckoutOption {
	return func(c *Checkout) { c.log = l }
}

func WithClock(now func() time.Time) CheckoutOption {
	return func(c *Checkout) { c.now = now }
}

func NewCheckout(repo Repository, policy pricing.Policy, opts ...CheckoutOption) *Checkout {
	c := &Checkout{
		repo:      repo,
		policy:    policy,
		publisher: events.NopPublisher{},
		log:       logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote prices the current content of store with the checkout policy.
func (c *Checkout) Quote(store *cart.Store) pricing.Quote {
	return c.policy.Quote(store.TotalPrice())
}

// PlaceOrder validates and persists the cart. Concurrent calls with the same
// user and transaction id share one execution; calls with different
// transaction ids run one after another, so a cart is ordered at most once.
// On any error the cart is left untouched.
func (c *Checkout) PlaceOrder(ctx context.Context, store *cart.Store, req CheckoutRequest) (*Order, error) {
	userID := strings.TrimSpace(req.UserID)
	key := userID + "\x00" + strings.TrimSpace(req.TransactionID)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		unlock := c.users.lock(userID)
		defer unlock()
		return c.placeOrder(ctx, store, req)
	})
	if err != nil {
		return nil, err
	}
	// shared result, give each caller its own copy
	o := *v.(*Order)
	return &o, nil
}

func (c *Checkout) placeOrder(ctx context.Context, store *cart.Store, req CheckoutRequest) (*Order, error) {
	snap := store.Snapshot()
	if snap.Empty() {
		return nil, ValidationError{Field: "items", Message: "cart is empty, nothing to checkout"}
	}

	draft := NewDraft(snap, c.policy.Quote(snap.TotalPrice()), req, c.now())
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	row, err := draft.Row()
	if err != nil {
		return nil, &PersistenceError{Op: "encode order", Err: err}
	}
	if err := c.repo.Create(ctx, row); err != nil {
		if errors.Is(err, ErrDuplicateTransaction) {
			return nil, err
		}
		c.log.WithFields(logrus.Fields{
			"user_id":        draft.UserID,
			"transaction_id": draft.TransactionID,
		}).WithError(err).Error("failed to persist order")
		return nil, &PersistenceError{Op: "create order", Err: err}
	}

	store.Consume(snap)

	order := Order{
		ID:              row.ID,
		UserID:          row.UserID,
		Items:           draft.Items,
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

	c.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.TotalAmount.StringFixed(2),
	}).Info("order placed")

	if err := c.publisher.PublishOrderPlaced(ctx, orderPlacedEvent(order)); err != nil {
		c.log.WithField("order_id", order.ID).WithError(err).Warn("failed to publish order placed event")
	}
	return &order, nil
}

func orderPlacedEvent(o Order) events.OrderPlaced {
	items := make([]events.OrderPlacedItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = events.OrderPlacedItem{
			MenuID:             it.MenuID,
			Name:               it.Name,
			Quantity:           it.Quantity,
			Price:              it.Price,
			CustomizationPrice: it.CustomizationPrice,
			Customizations:     it.Customizations,
		}
	}
	return events.OrderPlaced{
		OrderID:         o.ID,
		UserID:          o.UserID,
		TransactionID:   o.TransactionID,
		PaymentMethod:   o.PaymentMethod,
		DeliveryAddress: o.DeliveryAddress,
		TotalAmount:     o.TotalAmount,
		Items:           items,
		PlacedAt:        o.CreatedAt,
	}
}

// userLocks hands out one mutex per user, dropped once nobody holds it.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

func (u *userLocks) lock(userID string) (unlock func()) {
	u.mu.Lock()
	if u.locks == nil {
		u.locks = make(map[string]*userLock)
	}
	l, ok := u.locks[userID]
	if !ok {
		l = &userLock{}
		u.locks[userID] = l
	}
	l.refs++
	u.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		u.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(u.locks, userID)
		}
		u.mu.Unlock()
	}
}
