package orders

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateTransaction = errors.New("an order with this transaction id already exists")
)

// ValidationError is raised before any I/O when the request cannot become an order.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failure of the order store. The cart is left intact
// so the caller can retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeserializationError means a stored order's items blob could not be decoded.
type DeserializationError struct {
	OrderID string
	Err     error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode items of order %s: %v", e.OrderID, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }
