package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/marketbay/shop-backend/internal/auth"
	"github.com/marketbay/shop-backend/internal/cart"
	"github.com/marketbay/shop-backend/internal/product"
)

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartHandler struct {
	svc      cart.Service
	validate *validator.Validate
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc, validate: validator.New()}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	c, err := h.svc.GetCart(r.Context(), identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get cart")
		respondWithError(w, http.StatusInternalServerError, "Failed to get cart")
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload AddCartItemRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	productID, err := uuid.FromString(payload.ProductID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product_id")
		return
	}

	c, err := h.svc.AddItem(r.Context(), identity.UserID, productID, payload.Quantity)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to add cart item")
		respondWithError(w, http.StatusInternalServerError, "Failed to add cart item")
		return
	}

	respondWithJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, ok := parseIDParam(w, r, "itemID")
	if !ok {
		return
	}

	var payload UpdateCartItemRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	c, err := h.svc.UpdateItemQuantity(r.Context(), identity.UserID, itemID, payload.Quantity)
	if err != nil {
		respondCartError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, ok := parseIDParam(w, r, "itemID")
	if !ok {
		return
	}

	c, err := h.svc.RemoveItem(r.Context(), identity.UserID, itemID)
	if err != nil {
		respondCartError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.svc.ClearCart(r.Context(), identity.UserID); err != nil {
		log.Error().Err(err).Msg("Failed to clear cart")
		respondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		respondWithError(w, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, cart.ErrNotItemOwner):
		respondWithError(w, http.StatusForbidden, "Cart item does not belong to the user")
	default:
		log.Error().Err(err).Msg("Cart operation failed")
		respondWithError(w, http.StatusInternalServerError, "Cart operation failed")
	}
}
