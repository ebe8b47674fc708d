package address

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

type Address struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Street        string    `json:"street" db:"street"`
	City          string    `json:"city" db:"city"`
	StateProvince *string   `json:"state_province,omitempty" db:"state_province"`
	PostalCode    string    `json:"postal_code" db:"postal_code"`
	Country       string    `json:"country" db:"country"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Formatted renders the address as the single-line shipping string that gets
// snapshotted onto an order. Orders keep this string even if the address row
// is later edited or deleted.
func (a Address) Formatted() string {
	state := ""
	if a.StateProvince != nil && *a.StateProvince != "" {
		state = *a.StateProvince + ", "
	}
	return fmt.Sprintf("%s, %s, %s%s, %s", a.Street, a.City, state, a.PostalCode, a.Country)
}
