package orders

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// History reads orders back for display. Stored snapshots are authoritative;
// nothing is re-priced against the live catalog.
type History struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewHistory(repo Repository, log logrus.FieldLogger) *History {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &History{repo: repo, log: log}
}

// ListOrders returns the user's orders newest first. An order whose items
// cannot be decoded is kept in the list, marked Degraded.
func (h *History) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	rows, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}

	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		o, err := FromRow(row)
		if err != nil {
			h.log.WithFields(logrus.Fields{
				"order_id": row.ID,
				"user_id":  userID,
			}).WithError(err).Warn("order items could not be decoded")
		}
		out = append(out, o)
	}
	return out, nil
}

// GetOrder returns one order owned by userID. Orders of other users are
// reported as not found.
func (h *History) GetOrder(ctx context.Context, userID, orderID string) (*Order, error) {
	row, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "get order", Err: err}
	}
	if row.UserID != userID {
		return nil, ErrOrderNotFound
	}

	o, err := FromRow(*row)
	if err != nil {
		h.log.WithField("order_id", row.ID).WithError(err).Warn("order items could not be decoded")
	}
	return &o, nil
}
