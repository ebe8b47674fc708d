package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/marketbay/shop-backend/internal/auth"
	"github.com/marketbay/shop-backend/internal/user"
)

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type AuthHandler struct {
	users    user.Service
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewAuthHandler(users user.Service, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	u := user.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
	}

	created, err := h.users.CreateUser(r.Context(), &u, payload.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			respondWithError(w, http.StatusConflict, "Email already exists")
			return
		}
		log.Error().Err(err).Msg("Failed to register user")
		respondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	token, err := h.tokens.Issue(created.ID, created.Role)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token")
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusCreated, AuthResponse{Token: token, User: created})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginRequest
	if !decodeAndValidate(w, r, h.validate, &payload) {
		return
	}

	u, err := h.users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error().Err(err).Msg("Failed to authenticate user")
		respondWithError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	token, err := h.tokens.Issue(u.ID, u.Role)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token")
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, AuthResponse{Token: token, User: u})
}
