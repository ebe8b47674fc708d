package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotOwner is returned when an address exists but belongs to another user.
var ErrNotOwner = errors.New("address does not belong to the user")

type Service interface {
	CreateAddress(ctx context.Context, a *Address) (*Address, error)
	GetAddressByID(ctx context.Context, id uuid.UUID) (*Address, error)
	// GetUserAddress fetches an address and verifies it belongs to userID.
	GetUserAddress(ctx context.Context, id, userID uuid.UUID) (*Address, error)
	GetAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]Address, error)
	UpdateAddress(ctx context.Context, a *Address, requestingUserID uuid.UUID) error
	DeleteAddress(ctx context.Context, id, requestingUserID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateAddress(ctx context.Context, a *Address) (*Address, error) {
	if a.UserID == uuid.Nil {
		return nil, errors.New("service: address user id is required")
	}

	if _, err := s.repo.Create(ctx, a); err != nil {
		log.Error().Err(err).Msg("service: failed to create address in repository")
		return nil, fmt.Errorf("service: failed to create address: %w", err)
	}

	return a, nil
}

func (s *service) GetAddressByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Msg("service: failed to fetch address by id in repository")
		return nil, fmt.Errorf("service: failed to fetch address by id: %w", err)
	}

	return a, nil
}

func (s *service) GetUserAddress(ctx context.Context, id, userID uuid.UUID) (*Address, error) {
	a, err := s.GetAddressByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.UserID != userID {
		return nil, ErrNotOwner
	}

	return a, nil
}

func (s *service) GetAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	addresses, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch user addresses in repository")
		return nil, fmt.Errorf("service: failed to fetch user addresses: %w", err)
	}

	return addresses, nil
}

func (s *service) UpdateAddress(ctx context.Context, a *Address, requestingUserID uuid.UUID) error {
	if _, err := s.GetUserAddress(ctx, a.ID, requestingUserID); err != nil {
		return err
	}

	err := s.repo.Update(ctx, a)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("address_id", a.ID).Msg("service: failed to update address")
		return fmt.Errorf("service: failed to update address: %w", err)
	}

	return nil
}

func (s *service) DeleteAddress(ctx context.Context, id, requestingUserID uuid.UUID) error {
	if _, err := s.GetUserAddress(ctx, id, requestingUserID); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("address_id", id).Msg("service: failed to delete address")
		return fmt.Errorf("service: failed to delete address: %w", err)
	}

	return nil
}
