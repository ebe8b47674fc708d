package cart

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/marketbay/shop-backend/internal/product"
)

type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Items     []Item    `json:"items" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Item struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	CartID    uuid.UUID        `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID        `json:"product_id" db:"product_id"`
	Quantity  int              `json:"quantity" db:"quantity"`
	Product   *product.Product `json:"product,omitempty" db:"-"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}
