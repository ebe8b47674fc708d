package product

import (
	"time"

	"github.com/gofrs/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Price         float64   `json:"price" db:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty" db:"original_price"`
	Stock         int       `json:"stock" db:"stock"`
	ImgURL        *string   `json:"img_url,omitempty" db:"img_url"`
	CategoryID    uuid.UUID `json:"category_id" db:"category_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
