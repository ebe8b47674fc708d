package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service interface {
	CreateUser(ctx context.Context, u *User, password string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User, password string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateUser(ctx context.Context, u *User, password string) (*User, error) {
	if password == "" {
		return nil, errors.New("service: password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if u.Role == "" {
		u.Role = RoleCustomer
	}

	createdID, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create user in repository")
		return nil, fmt.Errorf("service: failed to create user: %w", err)
	}

	u.ID = createdID

	return u, nil
}

// Authenticate verifies the email/password pair and returns the matching user.
// A missing user and a wrong password are both reported as ErrInvalidCredentials
// so callers cannot probe which emails are registered.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("service: failed to fetch user for authentication")
		return nil, fmt.Errorf("service: failed to authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Msg("service: failed to fetch user by id in repository")
		return nil, fmt.Errorf("service: failed to fetch user by id: %w", err)
	}

	return u, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Msg("service: failed to fetch user by email in repository")
		return nil, fmt.Errorf("service: failed to fetch user by email: %w", err)
	}

	return u, nil
}

func (s *service) UpdateUser(ctx context.Context, u *User, password string) error {
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("service: failed to hash password")
			return fmt.Errorf("service: failed to hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	} else {
		current, err := s.repo.GetByID(ctx, u.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("service: failed to fetch user for update: %w", err)
		}
		u.PasswordHash = current.PasswordHash
	}

	err := s.repo.Update(ctx, u)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmailExists) {
			return err
		}
		log.Error().Err(err).Stringer("user_id", u.ID).Msg("service: failed to update user")
		return fmt.Errorf("service: failed to update user: %w", err)
	}

	return nil
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("user_id", id).Msg("service: failed to delete user")
		return fmt.Errorf("service: failed to delete user: %w", err)
	}

	return nil
}
