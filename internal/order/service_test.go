package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketbay/shop-backend/internal/order"
	"github.com/marketbay/shop-backend/internal/product"
)

// fakeStore keeps products and orders in maps and mimics transactional
// semantics: WithinTx snapshots state up front and restores it when the
// callback fails, so partial mutations never survive a failed call.
type fakeStore struct {
	products map[uuid.UUID]*product.Product
	orders   map[uuid.UUID]*order.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]*product.Product),
		orders:   make(map[uuid.UUID]*order.Order),
	}
}

func (s *fakeStore) addProduct(name string, stock int) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	s.products[id] = &product.Product{ID: id, Name: name, Stock: stock}
	return id
}

func (s *fakeStore) snapshot() (map[uuid.UUID]*product.Product, map[uuid.UUID]*order.Order) {
	products := make(map[uuid.UUID]*product.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		products[id] = &cp
	}
	orders := make(map[uuid.UUID]*order.Order, len(s.orders))
	for id, o := range s.orders {
		cp := *o
		cp.Items = append([]order.OrderItem(nil), o.Items...)
		orders[id] = &cp
	}
	return products, orders
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, uow order.UnitOfWork) error) error {
	products, orders := s.snapshot()
	if err := fn(ctx, &fakeUnitOfWork{store: s}); err != nil {
		s.products = products
		s.orders = orders
		return err
	}
	return nil
}

func (s *fakeStore) GetOrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	cp.Items = append([]order.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (s *fakeStore) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	result := make([]order.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (s *fakeStore) GetAllOrders(ctx context.Context) ([]order.Order, error) {
	result := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, *o)
	}
	return result, nil
}

func (s *fakeStore) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.orders[id]; !ok {
		return order.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) GetProductForUpdate(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	p, ok := u.store.products[productID]
	if !ok {
		return nil, order.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (u *fakeUnitOfWork) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	p, ok := u.store.products[productID]
	if !ok {
		return order.ErrProductNotFound
	}
	if p.Stock < quantity {
		return order.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (u *fakeUnitOfWork) IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	p, ok := u.store.products[productID]
	if !ok {
		return order.ErrProductNotFound
	}
	p.Stock += quantity
	return nil
}

func (u *fakeUnitOfWork) InsertOrder(ctx context.Context, o *order.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.Must(uuid.NewV4())
	}
	for i := range o.Items {
		o.Items[i].ID = uuid.Must(uuid.NewV4())
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	cp.Items = append([]order.OrderItem(nil), o.Items...)
	u.store.orders[o.ID] = &cp
	return nil
}

func (u *fakeUnitOfWork) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus order.OrderStatus) error {
	o, ok := u.store.orders[orderID]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Status = newStatus
	return nil
}

func TestCreateOrder_Success(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	userID := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID:  userID,
		Items:   []order.LineItem{{ProductID: productID, Quantity: 3, Price: 10}},
		Address: "1 Main St, Springfield, 12345, US",
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, 30.0, created.TotalAmount)
	assert.Equal(t, order.PaymentCOD, created.PaymentMethod)
	assert.Len(t, created.Items, 1)
	assert.Equal(t, 2, store.products[productID].Stock)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 2)
	svc := order.NewService(store)

	_, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: uuid.Must(uuid.NewV4()),
		Items:  []order.LineItem{{ProductID: productID, Quantity: 3, Price: 10}},
	})
	require.Error(t, err)

	assert.True(t, errors.Is(err, order.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Keyboard")
	assert.Contains(t, err.Error(), "Available: 2")
	assert.Contains(t, err.Error(), "Requested: 3")
	assert.Equal(t, 2, store.products[productID].Stock)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	store := newFakeStore()
	svc := order.NewService(store)

	_, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: uuid.Must(uuid.NewV4()),
		Items:  []order.LineItem{{ProductID: uuid.Must(uuid.NewV4()), Quantity: 1, Price: 10}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrProductNotFound))
}

func TestCreateOrder_PartialFailureLeavesNoDecrements(t *testing.T) {
	store := newFakeStore()
	firstID := store.addProduct("Keyboard", 5)
	secondID := store.addProduct("Mouse", 1)
	svc := order.NewService(store)

	_, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: uuid.Must(uuid.NewV4()),
		Items: []order.LineItem{
			{ProductID: firstID, Quantity: 2, Price: 10},
			{ProductID: secondID, Quantity: 3, Price: 5},
		},
	})
	require.Error(t, err)

	assert.True(t, errors.Is(err, order.ErrInsufficientStock))
	assert.Equal(t, 5, store.products[firstID].Stock)
	assert.Equal(t, 1, store.products[secondID].Stock)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_Validation(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	svc := order.NewService(store)

	tests := []struct {
		name      string
		items     []order.LineItem
		wantErrIs error
	}{
		{
			name:      "no_items",
			items:     nil,
			wantErrIs: order.ErrEmptyOrder,
		},
		{
			name:  "zero_quantity",
			items: []order.LineItem{{ProductID: productID, Quantity: 0, Price: 10}},
		},
		{
			name:  "negative_price",
			items: []order.LineItem{{ProductID: productID, Quantity: 1, Price: -1}},
		},
		{
			name:  "nil_product_id",
			items: []order.LineItem{{ProductID: uuid.Nil, Quantity: 1, Price: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
				UserID: uuid.Must(uuid.NewV4()),
				Items:  tt.items,
			})
			require.Error(t, err)
			if tt.wantErrIs != nil {
				assert.True(t, errors.Is(err, tt.wantErrIs))
			}
			assert.Equal(t, 5, store.products[productID].Stock)
		})
	}
}

func TestCreateOrder_InitialStatusByPaymentMethod(t *testing.T) {
	slip := "slips/receipt.jpg"
	emptySlip := ""

	tests := []struct {
		name          string
		paymentMethod string
		paymentSlip   *string
		wantStatus    order.OrderStatus
		wantMethod    string
	}{
		{name: "card_without_slip", paymentMethod: "CARD", wantStatus: order.StatusProcessing, wantMethod: "CARD"},
		{name: "card_with_slip", paymentMethod: "CARD", paymentSlip: &slip, wantStatus: order.StatusProcessing, wantMethod: "CARD"},
		{name: "qr_with_slip", paymentMethod: "QR", paymentSlip: &slip, wantStatus: order.StatusProcessing, wantMethod: "QR"},
		{name: "qr_without_slip", paymentMethod: "QR", wantStatus: order.StatusPending, wantMethod: "QR"},
		{name: "qr_with_empty_slip", paymentMethod: "QR", paymentSlip: &emptySlip, wantStatus: order.StatusPending, wantMethod: "QR"},
		{name: "cod", paymentMethod: "COD", wantStatus: order.StatusPending, wantMethod: "COD"},
		{name: "empty_defaults_to_cod", paymentMethod: "", wantStatus: order.StatusPending, wantMethod: "COD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			productID := store.addProduct("Keyboard", 10)
			svc := order.NewService(store)

			created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
				UserID:        uuid.Must(uuid.NewV4()),
				Items:         []order.LineItem{{ProductID: productID, Quantity: 1, Price: 10}},
				PaymentMethod: tt.paymentMethod,
				PaymentSlip:   tt.paymentSlip,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, created.Status)
			assert.Equal(t, tt.wantMethod, created.PaymentMethod)
		})
	}
}

func TestCreateOrder_TotalSumsLineItems(t *testing.T) {
	store := newFakeStore()
	firstID := store.addProduct("Keyboard", 10)
	secondID := store.addProduct("Mouse", 10)
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: uuid.Must(uuid.NewV4()),
		Items: []order.LineItem{
			{ProductID: firstID, Quantity: 2, Price: 49.99},
			{ProductID: secondID, Quantity: 3, Price: 15.50},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 2*49.99+3*15.50, created.TotalAmount, 1e-9)
	assert.Equal(t, 8, store.products[firstID].Stock)
	assert.Equal(t, 7, store.products[secondID].Stock)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	userID := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: userID,
		Items:  []order.LineItem{{ProductID: productID, Quantity: 3, Price: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, store.products[productID].Stock)

	cancelled, err := svc.CancelOrder(context.Background(), created.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, order.StatusCancelled, cancelled.Status)
	assert.Equal(t, 5, store.products[productID].Stock)
}

func TestCancelOrder_SecondCancelFails(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	userID := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: userID,
		Items:  []order.LineItem{{ProductID: productID, Quantity: 3, Price: 10}},
	})
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), created.ID, userID)
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), created.ID, userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrNotCancellable))
	assert.Contains(t, err.Error(), "CANCELLED")

	// Stock must not be restored twice.
	assert.Equal(t, 5, store.products[productID].Stock)
}

func TestCancelOrder_NotOwner(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	owner := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: owner,
		Items:  []order.LineItem{{ProductID: productID, Quantity: 1, Price: 10}},
	})
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), created.ID, uuid.Must(uuid.NewV4()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrNotOrderOwner))
	assert.Equal(t, 4, store.products[productID].Stock)
}

func TestCancelOrder_NotFound(t *testing.T) {
	svc := order.NewService(newFakeStore())

	_, err := svc.CancelOrder(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrOrderNotFound))
}

func TestCancelOrder_DeliveredIsTerminal(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	userID := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: userID,
		Items:  []order.LineItem{{ProductID: productID, Quantity: 2, Price: 10}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), created.ID, order.StatusDelivered)
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), created.ID, userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrNotCancellable))
	assert.Equal(t, 3, store.products[productID].Stock)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	userID := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: userID,
		Items:  []order.LineItem{{ProductID: productID, Quantity: 1, Price: 10}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), created.ID, order.OrderStatus("REFUNDED"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrInvalidStatus))
}

func TestUpdateOrderStatus_DoesNotTouchStock(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	userID := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: userID,
		Items:  []order.LineItem{{ProductID: productID, Quantity: 3, Price: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, store.products[productID].Stock)

	// Only the cancellation path restores stock; a plain status flip to
	// CANCELLED must not.
	updated, err := svc.UpdateOrderStatus(context.Background(), created.ID, order.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, order.StatusCancelled, updated.Status)
	assert.Equal(t, 2, store.products[productID].Stock)
}

func TestUpdateOrderStatus_AnyEnumTransitionAllowed(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	userID := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: userID,
		Items:  []order.LineItem{{ProductID: productID, Quantity: 1, Price: 10}},
	})
	require.NoError(t, err)

	// No ordering guard: backwards transitions are accepted.
	_, err = svc.UpdateOrderStatus(context.Background(), created.ID, order.StatusDelivered)
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(context.Background(), created.ID, order.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, updated.Status)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	svc := order.NewService(newFakeStore())

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.Must(uuid.NewV4()), order.StatusShipped)
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrOrderNotFound))
}

func TestDeleteOrder_DoesNotRestoreStock(t *testing.T) {
	store := newFakeStore()
	productID := store.addProduct("Keyboard", 5)
	userID := uuid.Must(uuid.NewV4())
	svc := order.NewService(store)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderInput{
		UserID: userID,
		Items:  []order.LineItem{{ProductID: productID, Quantity: 2, Price: 10}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), created.ID))

	_, err = svc.GetOrderByID(context.Background(), created.ID)
	assert.True(t, errors.Is(err, order.ErrOrderNotFound))
	assert.Equal(t, 3, store.products[productID].Stock)
}
