package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	Create(ctx context.Context, p *Product) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const productColumns = `id, name, description, price, original_price, stock, img_url, category_id, created_at, updated_at`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Stock, &p.ImgURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *postgresRepository) Create(ctx context.Context, p *Product) (uuid.UUID, error) {
	id := p.ID
	if id == uuid.Nil {
		genID, err := uuid.NewV4()
		if err != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to generate product ID: %w", err)
		}
		id = genID
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO products (id, name, description, price, original_price, stock, img_url, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		id, p.Name, p.Description, p.Price, p.OriginalPrice, p.Stock, p.ImgURL, p.CategoryID, now, now,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to insert product: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now

	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p Product
	err := scanProduct(r.db.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by id %s: %w", id, err)
	}

	return &p, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	return products, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, original_price = $4, stock = $5, img_url = $6, category_id = $7, updated_at = $8
		WHERE id = $9
	`

	cmdTag, err := r.db.Exec(ctx, query,
		p.Name, p.Description, p.Price, p.OriginalPrice, p.Stock, p.ImgURL, p.CategoryID, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update product %s: %w", p.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete product %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
