package repository

import (
	"context"
	"errors"

	"github.com/bcod/campus-market/internal/domain"
)

// ErrInsufficientStock is returned by Place when any ordered product no
// longer has the requested quantity available.
var ErrInsufficientStock = errors.New("insufficient product stock")

// CartRepository defines the interface for cart data access
type CartRepository interface {
	// GetOrCreate returns the user's cart with items, creating an empty one on first use
	GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error)
	// AddItem inserts a cart line
	AddItem(ctx context.Context, item *domain.CartItem) error
	// UpdateItemQuantity changes the quantity of an existing line
	UpdateItemQuantity(ctx context.Context, cartID, productID int64, quantity int) error
	// DeleteItem removes a line
	DeleteItem(ctx context.Context, cartID, productID int64) error
	// UpdateTotal persists the recomputed cart total
	UpdateTotal(ctx context.Context, cartID int64, total float64) error
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Place atomically inserts the order with its items, decrements product
	// stock and empties the source cart. Fails with ErrInsufficientStock when
	// stock ran out between cart and checkout.
	Place(ctx context.Context, order *domain.Order, cartID int64) (*domain.Order, error)
	// GetByID retrieves an order with items, nil when absent
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListByUserID returns the user's orders, newest first
	ListByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
	// UpdateStatus changes an order's lifecycle status
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}
