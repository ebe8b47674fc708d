package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	CancelOrder(ctx context.Context, orderID, requestingUserID uuid.UUID) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) (*Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	GetAllOrders(ctx context.Context) ([]Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type CreateOrderInput struct {
	UserID        uuid.UUID
	Items         []LineItem
	Address       string // formatted shipping address snapshot
	PaymentMethod string
	PaymentSlip   *string
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

// initialStatus decides where a fresh order starts. Card payments and QR
// payments with an uploaded slip are already paid for, so they skip PENDING.
func initialStatus(paymentMethod string, paymentSlip *string) OrderStatus {
	if paymentMethod == PaymentCard {
		return StatusProcessing
	}
	if paymentMethod == PaymentQR && paymentSlip != nil && *paymentSlip != "" {
		return StatusProcessing
	}
	return StatusPending
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if len(input.Items) == 0 {
		log.Warn().Stringer("user_id", input.UserID).Msg("service: attempt to create order with no items")
		return nil, ErrEmptyOrder
	}

	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, errors.New("service: product id in line item cannot be nil")
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("service: line item quantity for product %s must be at least one", item.ProductID)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("service: line item price for product %s cannot be negative", item.ProductID)
		}
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = PaymentCOD
	}

	o := &Order{
		UserID:        input.UserID,
		Status:        initialStatus(paymentMethod, input.PaymentSlip),
		TotalAmount:   TotalAmount(input.Items),
		Address:       input.Address,
		PaymentMethod: paymentMethod,
		PaymentSlip:   input.PaymentSlip,
	}

	// Stock checks, the order insert and every stock decrement share one
	// transaction: a failure on any line leaves no partial decrements behind.
	err := s.store.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		for _, item := range input.Items {
			p, err := uow.GetProductForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, ErrProductNotFound) {
					return fmt.Errorf("product with id %s: %w", item.ProductID, ErrProductNotFound)
				}
				return err
			}

			if p.Stock < item.Quantity {
				return &InsufficientStockError{
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   item.Quantity,
				}
			}

			o.Items = append(o.Items, OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}

		if err := uow.InsertOrder(ctx, o); err != nil {
			return err
		}

		for _, item := range input.Items {
			if err := uow.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if isWorkflowError(err) {
			log.Warn().Err(err).Stringer("user_id", input.UserID).Msg("service: order creation rejected")
			return nil, err
		}
		log.Error().Err(err).Stringer("user_id", input.UserID).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	created, err := s.store.GetOrderByID(ctx, o.ID)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", o.ID).Msg("service: failed to fetch created order")
		return nil, fmt.Errorf("service: failed to fetch created order: %w", err)
	}

	log.Info().
		Stringer("order_id", created.ID).
		Stringer("user_id", created.UserID).
		Float64("total_amount", created.TotalAmount).
		Stringer("status", created.Status).
		Msg("service: order created")

	return created, nil
}

func (s *service) CancelOrder(ctx context.Context, orderID, requestingUserID uuid.UUID) (*Order, error) {
	o, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Stringer("order_id", orderID).Msg("service: order not found, cannot cancel")
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to get order for cancellation")
		return nil, fmt.Errorf("service: failed to get order for cancellation: %w", err)
	}

	if o.UserID != requestingUserID {
		log.Warn().
			Stringer("order_id", orderID).
			Stringer("owner_id", o.UserID).
			Stringer("requesting_user_id", requestingUserID).
			Msg("service: cancellation attempt by non-owner")
		return nil, ErrNotOrderOwner
	}

	if !o.Status.IsCancellable() {
		log.Warn().Stringer("order_id", orderID).Stringer("status", o.Status).Msg("service: cancellation attempt from non-cancellable status")
		return nil, &NotCancellableError{Status: o.Status}
	}

	// Stock restoration and the status flip commit together: a second cancel
	// attempt is stopped above by the CANCELLED status, so stock is never
	// restored twice.
	err = s.store.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		for _, item := range o.Items {
			if err := uow.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return uow.UpdateOrderStatus(ctx, orderID, StatusCancelled)
	})
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to cancel order")
		return nil, fmt.Errorf("service: failed to cancel order: %w", err)
	}

	cancelled, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch cancelled order: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Msg("service: order cancelled, stock restored")

	return cancelled, nil
}

// UpdateOrderStatus gates only on enum membership. Unlike cancellation it
// never touches stock, even when moving to CANCELLED.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) (*Order, error) {
	if !newStatus.IsValid() {
		return nil, &InvalidStatusError{Status: string(newStatus)}
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		return uow.UpdateOrderStatus(ctx, orderID, newStatus)
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: order not found, cannot update status")
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: failed to update order status")
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	updated, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch updated order: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: order status updated")

	return updated, nil
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order by id")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}

	return o, nil
}

func (s *service) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders, err := s.store.GetOrdersByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch user orders")
		return nil, fmt.Errorf("service: failed to fetch user orders: %w", err)
	}

	return orders, nil
}

func (s *service) GetAllOrders(ctx context.Context) ([]Order, error) {
	orders, err := s.store.GetAllOrders(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch orders")
		return nil, fmt.Errorf("service: failed to fetch orders: %w", err)
	}

	return orders, nil
}

// DeleteOrder is the administrative delete path: a plain repository delete
// with cascading items and no stock restoration.
func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	err := s.store.DeleteOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to delete order")
		return fmt.Errorf("service: failed to delete order: %w", err)
	}

	return nil
}

func isWorkflowError(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrOrderNotFound)
}
