package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/marketbay/shop-backend/internal/address"
	"github.com/marketbay/shop-backend/internal/auth"
	"github.com/marketbay/shop-backend/internal/order"
)

type CartItemPayload struct {
	ProductID string  `json:"product_id" validate:"required,uuid4"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type CreateOrderRequest struct {
	CartItems     []CartItemPayload `json:"cart_items" validate:"required,min=1,dive"`
	AddressID     string            `json:"address_id" validate:"required,uuid4"`
	PaymentMethod string            `json:"payment_method"`
	PaymentSlip   *string           `json:"payment_slip,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderHandler struct {
	svc       order.Service
	addresses address.Service
	validate  *validator.Validate
}

func NewOrderHandler(svc order.Service, addresses address.Service) *OrderHandler {
	return &OrderHandler{
		svc:       svc,
		addresses: addresses,
		validate:  validator.New(),
	}
}

// Create handles order creation: the caller submits the cart selection with
// the prices it saw, plus an address id that is resolved and snapshotted into
// a formatted shipping string before the workflow runs.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload CreateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	items := make([]order.LineItem, 0, len(payload.CartItems))
	for _, ci := range payload.CartItems {
		productID, err := uuid.FromString(ci.ProductID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid product_id in cart items")
			return
		}
		items = append(items, order.LineItem{
			ProductID: productID,
			Quantity:  ci.Quantity,
			Price:     ci.Price,
		})
	}

	addressID, err := uuid.FromString(payload.AddressID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid address_id")
		return
	}

	selected, err := h.addresses.GetUserAddress(r.Context(), addressID, identity.UserID)
	if err != nil {
		if errors.Is(err, address.ErrNotFound) || errors.Is(err, address.ErrNotOwner) {
			respondWithError(w, http.StatusNotFound, "Address not found or not authorized for this user")
			return
		}
		log.Error().Err(err).Msg("Failed to resolve shipping address")
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve shipping address")
		return
	}

	created, err := h.svc.CreateOrder(r.Context(), order.CreateOrderInput{
		UserID:        identity.UserID,
		Items:         items,
		Address:       selected.Formatted(),
		PaymentMethod: payload.PaymentMethod,
		PaymentSlip:   payload.PaymentSlip,
	})
	if err != nil {
		respondOrderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	cancelled, err := h.svc.CancelOrder(r.Context(), orderID, identity.UserID)
	if err != nil {
		respondOrderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, cancelled)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var payload UpdateOrderStatusRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	updated, err := h.svc.UpdateOrderStatus(r.Context(), orderID, order.OrderStatus(payload.Status))
	if err != nil {
		respondOrderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.svc.GetOrderByID(r.Context(), orderID)
	if err != nil {
		respondOrderError(w, err)
		return
	}

	if o.UserID != identity.UserID && !identity.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "Order does not belong to the user")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.GetAllOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		respondWithError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	orders, err := h.svc.GetOrdersByUserID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list user orders")
		respondWithError(w, http.StatusInternalServerError, "Failed to list user orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), orderID); err != nil {
		respondOrderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondOrderError maps workflow errors onto HTTP statuses: absent entities
// to 404, ownership violations to 403, rejected input or transitions to 400,
// everything else to 500. Workflow rejections keep their descriptive message.
func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		respondWithError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, order.ErrProductNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrNotOrderOwner):
		respondWithError(w, http.StatusForbidden, "You can only cancel your own orders")
	case errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, order.ErrNotCancellable),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrEmptyOrder):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("Order operation failed")
		respondWithError(w, http.StatusInternalServerError, "Order operation failed")
	}
}
