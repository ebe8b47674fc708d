package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marketbay/shop-backend/internal/product"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")
)

type Repository interface {
	// GetOrCreateByUserID returns the user's cart, creating an empty one on
	// first use. Items are loaded eagerly with their product rows.
	GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*Item, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	var c Cart

	query := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		id, genErr := uuid.NewV4()
		if genErr != nil {
			return nil, fmt.Errorf("repository: failed to generate cart ID: %w", genErr)
		}

		now := time.Now().UTC()
		insert := `
			INSERT INTO carts (id, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
			RETURNING id, user_id, created_at, updated_at
		`
		err = r.db.QueryRow(ctx, insert, id, userID, now, now).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get or create cart for user %s: %w", userID, err)
	}

	items, err := r.getItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items

	return &c, nil
}

func (r *postgresRepository) getItems(ctx context.Context, cartID uuid.UUID) ([]Item, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       p.id, p.name, p.description, p.price, p.original_price, p.stock, p.img_url, p.category_id, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart items for cart %s: %w", cartID, err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		var p product.Product
		err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Stock, &p.ImgURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart item for cart %s: %w", cartID, err)
		}
		item.Product = &p
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cart items for cart %s: %w", cartID, err)
	}

	return items, nil
}

func (r *postgresRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*Item, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("repository: failed to generate cart item ID: %w", err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, cart_id, product_id, quantity, created_at, updated_at
	`

	var item Item
	err = r.db.QueryRow(ctx, query, id, cartID, productID, quantity, now, now).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to upsert cart item: %w", err)
	}

	return &item, nil
}

func (r *postgresRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1, updated_at = $2 WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, quantity, time.Now().UTC(), itemID)
	if err != nil {
		return fmt.Errorf("repository: failed to update cart item %s: %w", itemID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *postgresRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete cart item %s: %w", itemID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *postgresRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("repository: failed to clear cart %s: %w", cartID, err)
	}

	return nil
}
