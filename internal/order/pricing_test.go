package order_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/marketbay/shop-backend/internal/order"
)

func TestTotalAmount(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	tests := []struct {
		name  string
		items []order.LineItem
		want  float64
	}{
		{
			name:  "empty",
			items: nil,
			want:  0,
		},
		{
			name:  "single_item",
			items: []order.LineItem{{ProductID: id, Quantity: 3, Price: 10}},
			want:  30,
		},
		{
			name: "multiple_items",
			items: []order.LineItem{
				{ProductID: id, Quantity: 2, Price: 49.99},
				{ProductID: id, Quantity: 1, Price: 0.02},
			},
			want: 99.98 + 0.02,
		},
		{
			name:  "free_item",
			items: []order.LineItem{{ProductID: id, Quantity: 5, Price: 0}},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, order.TotalAmount(tt.items), 1e-9)
		})
	}
}
