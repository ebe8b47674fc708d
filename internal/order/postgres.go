package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/marketbay/shop-backend/internal/product"
	"github.com/marketbay/shop-backend/internal/user"
)

type postgresStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) (err error) {
	tx, beginErr := s.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Msg("Panic recovered during order transaction, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				log.Error().Err(commitErr).Msg("Failed to commit transaction")
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	err = fn(ctx, &pgxUnitOfWork{tx: tx})
	return err
}

// pgxUnitOfWork issues every statement against one open pgx transaction.
type pgxUnitOfWork struct {
	tx pgx.Tx
}

func (u *pgxUnitOfWork) GetProductForUpdate(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	query := `
		SELECT id, name, description, price, original_price, stock, img_url, category_id, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p product.Product
	err := u.tx.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Stock, &p.ImgURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product %s for update: %w", productID, err)
	}

	return &p, nil
}

func (u *pgxUnitOfWork) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1 AND stock >= $2
	`

	cmdTag, err := u.tx.Exec(ctx, query, productID, quantity, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return fmt.Errorf("repository: stock check violated for product %s: %w", productID, ErrInsufficientStock)
		}
		return fmt.Errorf("repository: failed to decrement stock for product %s: %w", productID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("repository: failed to decrement stock for product %s: %w", productID, ErrInsufficientStock)
	}

	return nil
}

func (u *pgxUnitOfWork) IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = $3
		WHERE id = $1
	`

	cmdTag, err := u.tx.Exec(ctx, query, productID, quantity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("repository: failed to increment stock for product %s: %w", productID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (u *pgxUnitOfWork) InsertOrder(ctx context.Context, o *Order) error {
	orderID := o.ID
	if orderID == uuid.Nil {
		genID, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate order ID: %w", err)
		}
		orderID = genID
	}
	o.ID = orderID

	now := time.Now().UTC()

	queryOrder := `
		INSERT INTO orders (id, user_id, status, total_amount, address, payment_method, payment_slip, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := u.tx.Exec(ctx, queryOrder,
		orderID, o.UserID, string(o.Status), o.TotalAmount, o.Address, o.PaymentMethod, o.PaymentSlip, now, now,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	queryItem := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range o.Items {
		item := &o.Items[i]

		itemID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate order item ID: %w", genErr)
		}
		item.ID = itemID
		item.OrderID = orderID

		_, err = u.tx.Exec(ctx, queryItem,
			item.ID, orderID, item.ProductID, item.Quantity, item.Price, now, now,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", orderID, err)
		}
		item.CreatedAt = now
		item.UpdatedAt = now
	}

	return nil
}

func (u *pgxUnitOfWork) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	cmdTag, err := u.tx.Exec(ctx, query, string(newStatus), time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

const orderColumns = `id, user_id, status, total_amount, address, payment_method, payment_slip, created_at, updated_at`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.Address,
		&o.PaymentMethod, &o.PaymentSlip, &o.CreatedAt, &o.UpdatedAt,
	)
}

func (s *postgresStore) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o Order
	err := scanOrder(s.db.QueryRow(ctx, query, orderID), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", orderID, err)
	}

	itemsByOrder, err := s.loadItems(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = itemsByOrder[o.ID]
	if o.Items == nil {
		o.Items = make([]OrderItem, 0)
	}

	owner, err := s.loadUser(ctx, o.UserID)
	if err != nil {
		return nil, err
	}
	o.User = owner

	return &o, nil
}

func (s *postgresStore) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user id %s: %w", userID, err)
	}
	defer rows.Close()

	return s.collectOrders(ctx, rows)
}

func (s *postgresStore) GetAllOrders(ctx context.Context) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	return s.collectOrders(ctx, rows)
}

func (s *postgresStore) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %s: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// collectOrders scans the order rows, then attaches items (with product
// snapshots) in a single follow-up query keyed by order id.
func (s *postgresStore) collectOrders(ctx context.Context, rows pgx.Rows) ([]Order, error) {
	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []uuid.UUID

	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		o.Items = make([]OrderItem, 0)
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	itemsByOrder, err := s.loadItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	result := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		o := ordersMap[id]
		if items, ok := itemsByOrder[id]; ok {
			o.Items = items
		}
		result = append(result, *o)
	}

	return result, nil
}

func (s *postgresStore) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at, oi.updated_at,
		       p.id, p.name, p.description, p.price, p.original_price, p.stock, p.img_url, p.category_id, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at
	`

	rows, err := s.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[uuid.UUID][]OrderItem)
	for rows.Next() {
		var item OrderItem
		var p product.Product
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Stock, &p.ImgURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		item.Product = &p
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return itemsByOrder, nil
}

func (s *postgresStore) loadUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select order owner %s: %w", userID, err)
	}

	return &u, nil
}
