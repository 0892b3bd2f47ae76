package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcod/campus-market/internal/domain"
)

// PostgresCartRepository implements CartRepository using PostgreSQL
type PostgresCartRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCartRepository creates a new PostgresCartRepository
func NewPostgresCartRepository(pool *pgxpool.Pool) *PostgresCartRepository {
	return &PostgresCartRepository{pool: pool}
}

// GetOrCreate returns the user's cart with items, creating it on first use
func (r *PostgresCartRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart := &domain.Cart{UserID: userID}
	err := r.pool.QueryRow(ctx, `
		SELECT id, total_price, updated_at FROM carts WHERE user_id = $1
	`, userID).Scan(&cart.ID, &cart.TotalPrice, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = r.pool.QueryRow(ctx, `
			INSERT INTO carts (user_id, total_price, updated_at)
			VALUES ($1, 0, $2)
			RETURNING id, total_price, updated_at
		`, userID, time.Now()).Scan(&cart.ID, &cart.TotalPrice, &cart.UpdatedAt)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

func (r *PostgresCartRepository) loadItems(ctx context.Context, cartID int64) ([]*domain.CartItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.price, ci.discount,
		       p.id, p.name, p.description, p.image, p.quantity, p.price, p.discount, p.category_id, p.seller_id
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.CartItem{}
	for rows.Next() {
		item := &domain.CartItem{Product: &domain.Product{}}
		p := item.Product
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.Price, &item.Discount,
			&p.ID, &p.Name, &p.Description, &p.Image, &p.Quantity, &p.Price, &p.Discount, &p.CategoryID, &p.SellerID,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddItem inserts a cart line
func (r *PostgresCartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, price, discount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, item.CartID, item.ProductID, item.Quantity, item.Price, item.Discount).Scan(&item.ID)
}

// UpdateItemQuantity changes the quantity of an existing line
func (r *PostgresCartRepository) UpdateItemQuantity(ctx context.Context, cartID, productID int64, quantity int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID, quantity)
	return err
}

// DeleteItem removes a line
func (r *PostgresCartRepository) DeleteItem(ctx context.Context, cartID, productID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID)
	return err
}

// UpdateTotal persists the recomputed cart total
func (r *PostgresCartRepository) UpdateTotal(ctx context.Context, cartID int64, total float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE carts SET total_price = $2, updated_at = $3 WHERE id = $1
	`, cartID, total, time.Now())
	return err
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

// Place atomically inserts the order, decrements stock and empties the cart
func (r *PostgresOrderRepository) Place(ctx context.Context, order *domain.Order, cartID int64) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	order.OrderedAt = now
	order.UpdatedAt = now

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, email, cod_location_id, status, total_amount, ordered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, order.UserID, order.Email, order.CodLocationID, string(order.Status),
		order.TotalAmount, order.OrderedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, price, discount)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, item.OrderID, item.ProductID, item.Name, item.Quantity, item.Price, item.Discount).Scan(&item.ID)
		if err != nil {
			return nil, err
		}

		// Guarded decrement keeps concurrent checkouts from overselling
		tag, err := tx.Exec(ctx, `
			UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2
		`, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrInsufficientStock
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET total_price = 0, updated_at = $2 WHERE id = $1`, cartID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID retrieves an order with items
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}
	var status string
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, email, cod_location_id, status, total_amount, ordered_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.UserID, &order.Email, &order.CodLocationID,
		&status, &order.TotalAmount, &order.OrderedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	order.Status = domain.OrderStatus(status)

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, name, quantity, price, discount
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.OrderItem{}
	for rows.Next() {
		item := &domain.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Name, &item.Quantity, &item.Price, &item.Discount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListByUserID returns the user's orders, newest first
func (r *PostgresOrderRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, email, cod_location_id, status, total_amount, ordered_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY ordered_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		var status string
		if err := rows.Scan(&order.ID, &order.UserID, &order.Email, &order.CodLocationID,
			&status, &order.TotalAmount, &order.OrderedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		order.Status = domain.OrderStatus(status)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}

// UpdateStatus changes an order's lifecycle status
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1
	`, id, string(status), time.Now())
	return err
}
