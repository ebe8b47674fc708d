package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrNotOrderOwner     = errors.New("order does not belong to the user")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotCancellable    = errors.New("order cannot be cancelled")
	ErrInvalidStatus     = errors.New("invalid order status")
)

// InsufficientStockError reports a line item whose requested quantity exceeds
// the product's available stock. Matches ErrInsufficientStock via errors.Is.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NotCancellableError reports a cancellation attempt from a non-cancellable
// status. Matches ErrNotCancellable via errors.Is.
type NotCancellableError struct {
	Status OrderStatus
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("order cannot be cancelled. Current status: %s. Only PENDING or PROCESSING orders can be cancelled",
		e.Status)
}

func (e *NotCancellableError) Is(target error) bool {
	return target == ErrNotCancellable
}

// InvalidStatusError reports a status value outside the enumeration. Matches
// ErrInvalidStatus via errors.Is.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status: %s", e.Status)
}

func (e *InvalidStatusError) Is(target error) bool {
	return target == ErrInvalidStatus
}
