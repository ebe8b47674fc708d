package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/marketbay/shop-backend/internal/address"
	"github.com/marketbay/shop-backend/internal/auth"
)

type AddressRequest struct {
	Street        string  `json:"street" validate:"required,min=2"`
	City          string  `json:"city" validate:"required,min=2"`
	StateProvince *string `json:"state_province,omitempty"`
	PostalCode    string  `json:"postal_code" validate:"required"`
	Country       string  `json:"country" validate:"required,min=2"`
}

type AddressHandler struct {
	svc      address.Service
	validate *validator.Validate
}

func NewAddressHandler(svc address.Service) *AddressHandler {
	return &AddressHandler{svc: svc, validate: validator.New()}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	addresses, err := h.svc.GetAddressesByUserID(r.Context(), identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list addresses")
		respondWithError(w, http.StatusInternalServerError, "Failed to list addresses")
		return
	}

	respondWithJSON(w, http.StatusOK, addresses)
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload AddressRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	a := address.Address{
		UserID:        identity.UserID,
		Street:        payload.Street,
		City:          payload.City,
		StateProvince: payload.StateProvince,
		PostalCode:    payload.PostalCode,
		Country:       payload.Country,
	}

	created, err := h.svc.CreateAddress(r.Context(), &a)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create address")
		respondWithError(w, http.StatusInternalServerError, "Failed to create address")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var payload AddressRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	a := address.Address{
		ID:            id,
		UserID:        identity.UserID,
		Street:        payload.Street,
		City:          payload.City,
		StateProvince: payload.StateProvince,
		PostalCode:    payload.PostalCode,
		Country:       payload.Country,
	}

	if err := h.svc.UpdateAddress(r.Context(), &a, identity.UserID); err != nil {
		respondAddressError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteAddress(r.Context(), id, identity.UserID); err != nil {
		respondAddressError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondAddressError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, address.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Address not found")
	case errors.Is(err, address.ErrNotOwner):
		respondWithError(w, http.StatusForbidden, "Address does not belong to the user")
	default:
		log.Error().Err(err).Msg("Address operation failed")
		respondWithError(w, http.StatusInternalServerError, "Address operation failed")
	}
}
