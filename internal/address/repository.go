package address

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	Create(ctx context.Context, a *Address) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Address, error)
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *Address) (uuid.UUID, error) {
	id := a.ID
	if id == uuid.Nil {
		genID, err := uuid.NewV4()
		if err != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to generate address ID: %w", err)
		}
		id = genID
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO addresses (id, user_id, street, city, state_province, postal_code, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, id, a.UserID, a.Street, a.City, a.StateProvince, a.PostalCode, a.Country, now, now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to insert address: %w", err)
	}

	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now

	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	query := `
		SELECT id, user_id, street, city, state_province, postal_code, country, created_at, updated_at
		FROM addresses
		WHERE id = $1
	`

	var a Address
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Street, &a.City, &a.StateProvince, &a.PostalCode, &a.Country, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select address by id %s: %w", id, err)
	}

	return &a, nil
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	query := `
		SELECT id, user_id, street, city, state_province, postal_code, country, created_at, updated_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query addresses for user id %s: %w", userID, err)
	}
	defer rows.Close()

	addresses := make([]Address, 0)
	for rows.Next() {
		var a Address
		err := rows.Scan(
			&a.ID, &a.UserID, &a.Street, &a.City, &a.StateProvince, &a.PostalCode, &a.Country, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan address for user id %s: %w", userID, err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating addresses for user id %s: %w", userID, err)
	}

	return addresses, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *Address) error {
	query := `
		UPDATE addresses
		SET street = $1, city = $2, state_province = $3, postal_code = $4, country = $5, updated_at = $6
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query, a.Street, a.City, a.StateProvince, a.PostalCode, a.Country, time.Now().UTC(), a.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update address %s: %w", a.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete address %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
