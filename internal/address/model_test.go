package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marketbay/shop-backend/internal/address"
)

func TestAddress_Formatted(t *testing.T) {
	state := "CA"
	empty := ""

	tests := []struct {
		name string
		addr address.Address
		want string
	}{
		{
			name: "with_state",
			addr: address.Address{
				Street:        "1 Main St",
				City:          "San Jose",
				StateProvince: &state,
				PostalCode:    "95113",
				Country:       "US",
			},
			want: "1 Main St, San Jose, CA, 95113, US",
		},
		{
			name: "without_state",
			addr: address.Address{
				Street:     "22 Baker St",
				City:       "London",
				PostalCode: "NW1 6XE",
				Country:    "UK",
			},
			want: "22 Baker St, London, NW1 6XE, UK",
		},
		{
			name: "empty_state_treated_as_absent",
			addr: address.Address{
				Street:        "5 Rue Cler",
				City:          "Paris",
				StateProvince: &empty,
				PostalCode:    "75007",
				Country:       "FR",
			},
			want: "5 Rue Cler, Paris, 75007, FR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.Formatted())
		})
	}
}
