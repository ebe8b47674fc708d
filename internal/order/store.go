package order

import (
	"context"

	"github.com/gofrs/uuid"

	"github.com/marketbay/shop-backend/internal/product"
)

// UnitOfWork is the set of mutations available inside one atomic transaction.
// Everything called on it commits together or not at all; the enclosing
// Store.WithinTx call owns commit and rollback.
type UnitOfWork interface {
	// GetProductForUpdate reads a product row and locks it until the
	// transaction ends, so concurrent orders against the same product
	// serialize on the stock check. Returns ErrProductNotFound if absent.
	GetProductForUpdate(ctx context.Context, productID uuid.UUID) (*product.Product, error)

	// DecrementStock subtracts quantity from the product's stock. The update
	// is conditional on sufficient stock remaining, so a racing decrement
	// fails with ErrInsufficientStock instead of driving stock negative.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// IncrementStock adds quantity back to the product's stock. No upper
	// bound check.
	IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// InsertOrder persists the order row and all of its item rows.
	InsertOrder(ctx context.Context, o *Order) error

	// UpdateOrderStatus persists only the status field. Returns
	// ErrOrderNotFound if the order does not exist.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error
}

// Store is the persistence provider for orders.
type Store interface {
	// WithinTx runs fn inside a single database transaction. fn returning an
	// error rolls back every mutation made through the UnitOfWork.
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error

	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	GetAllOrders(ctx context.Context) ([]Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}
