package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/marketbay/shop-backend/internal/product"
)

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,min=5"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice *float64 `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	Stock         int      `json:"stock" validate:"gte=0"`
	ImgURL        *string  `json:"img_url,omitempty" validate:"omitempty,url"`
	CategoryID    string   `json:"category_id" validate:"required,uuid4"`
}

type ProductHandler struct {
	svc      product.Service
	validate *validator.Validate
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc, validate: validator.New()}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get product")
		respondWithError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	categoryID, err := uuid.FromString(payload.CategoryID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category_id")
		return
	}

	p := product.Product{
		Name:          payload.Name,
		Description:   payload.Description,
		Price:         payload.Price,
		OriginalPrice: payload.OriginalPrice,
		Stock:         payload.Stock,
		ImgURL:        payload.ImgURL,
		CategoryID:    categoryID,
	}

	created, err := h.svc.CreateProduct(r.Context(), &p)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create product")
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var payload CreateProductRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	categoryID, err := uuid.FromString(payload.CategoryID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category_id")
		return
	}

	p := product.Product{
		ID:            id,
		Name:          payload.Name,
		Description:   payload.Description,
		Price:         payload.Price,
		OriginalPrice: payload.OriginalPrice,
		Stock:         payload.Stock,
		ImgURL:        payload.ImgURL,
		CategoryID:    categoryID,
	}

	if err := h.svc.UpdateProduct(r.Context(), &p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to update product")
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to delete product")
		respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseIDParam reads a UUID path parameter, responding with 400 on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	param := chi.URLParam(r, name)
	id, err := uuid.FromString(param)
	if err != nil {
		log.Warn().Err(err).Str("param", param).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}
