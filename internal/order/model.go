package order

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/marketbay/shop-backend/internal/product"
	"github.com/marketbay/shop-backend/internal/user"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

func (os OrderStatus) String() string {
	return string(os)
}

func (os OrderStatus) IsValid() bool {
	switch os {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsCancellable reports whether the cancellation path may run from this
// status. DELIVERED and CANCELLED are terminal for cancellation.
func (os OrderStatus) IsCancellable() bool {
	return os == StatusPending || os == StatusProcessing
}

// Payment methods are free-form strings; these are the ones the status rule
// in CreateOrder knows about.
const (
	PaymentCOD  = "COD"
	PaymentCard = "CARD"
	PaymentQR   = "QR"
)

type OrderItem struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	OrderID   uuid.UUID        `json:"order_id" db:"order_id"`
	ProductID uuid.UUID        `json:"product_id" db:"product_id"`
	Quantity  int              `json:"quantity" db:"quantity"`
	Price     float64          `json:"price" db:"price"` // unit price captured at order time
	Product   *product.Product `json:"product,omitempty" db:"-"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	UserID        uuid.UUID   `json:"user_id" db:"user_id"`
	Status        OrderStatus `json:"status" db:"status"`
	Items         []OrderItem `json:"items" db:"-"`
	TotalAmount   float64     `json:"total_amount" db:"total_amount"`
	Address       string      `json:"address" db:"address"` // shipping address snapshot at creation time
	PaymentMethod string      `json:"payment_method" db:"payment_method"`
	PaymentSlip   *string     `json:"payment_slip,omitempty" db:"payment_slip"`
	User          *user.User  `json:"user,omitempty" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// LineItem is a (product, quantity, price) tuple submitted at order-creation
// time. The price is the one the caller saw in the cart, not a fresh catalog
// read.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	Price     float64
}
