package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/marketbay/shop-backend/internal/product"
)

var ErrNotItemOwner = errors.New("cart item does not belong to the user")

type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	products product.Repository
}

func NewService(repo Repository, products product.Repository) Service {
	return &service{repo: repo, products: products}
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	c, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch cart")
		return nil, fmt.Errorf("service: failed to fetch cart: %w", err)
	}

	return c, nil
}

func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("service: cart item quantity must be greater than zero")
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch product for cart: %w", err)
	}

	c, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch cart: %w", err)
	}

	if _, err := s.repo.UpsertItem(ctx, c.ID, productID, quantity); err != nil {
		log.Error().Err(err).Stringer("cart_id", c.ID).Msg("service: failed to add cart item")
		return nil, fmt.Errorf("service: failed to add cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("service: cart item quantity must be greater than zero")
	}

	c, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch cart: %w", err)
	}

	if !ownsItem(c, itemID) {
		return nil, ErrNotItemOwner
	}

	if err := s.repo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		log.Error().Err(err).Stringer("item_id", itemID).Msg("service: failed to update cart item")
		return nil, fmt.Errorf("service: failed to update cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Cart, error) {
	c, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch cart: %w", err)
	}

	if !ownsItem(c, itemID) {
		return nil, ErrNotItemOwner
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		log.Error().Err(err).Stringer("item_id", itemID).Msg("service: failed to remove cart item")
		return nil, fmt.Errorf("service: failed to remove cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	c, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("service: failed to fetch cart: %w", err)
	}

	if err := s.repo.Clear(ctx, c.ID); err != nil {
		log.Error().Err(err).Stringer("cart_id", c.ID).Msg("service: failed to clear cart")
		return fmt.Errorf("service: failed to clear cart: %w", err)
	}

	return nil
}

func ownsItem(c *Cart, itemID uuid.UUID) bool {
	for _, item := range c.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}
