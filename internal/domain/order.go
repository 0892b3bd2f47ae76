package domain

import (
	"time"
)

// CartItem is a product held in a cart with its price captured at add time
type CartItem struct {
	ID        int64   `json:"id"`
	CartID    int64   `json:"cart_id"`
	ProductID int64   `json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`    // unit price at add time
	Discount  float64 `json:"discount"` // percentage at add time
}

// Subtotal returns the discounted line total
func (i *CartItem) Subtotal() float64 {
	unit := i.Price - (i.Discount/100.0)*i.Price
	return unit * float64(i.Quantity)
}

// Cart holds a user's pending items. One cart per user.
type Cart struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	Items      []*CartItem `json:"items"`
	TotalPrice float64     `json:"total_price"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Recalculate recomputes the cart total from its items
func (c *Cart) Recalculate() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	c.TotalPrice = total
}

// OrderStatus tracks the COD order lifecycle
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is a known status label
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is a purchased line frozen from the cart at checkout
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
}

// Order is a placed cash-on-delivery order
type Order struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"user_id"`
	Email         string       `json:"email"`
	Items         []*OrderItem `json:"items"`
	CodLocationID int64        `json:"cod_location_id"`
	Status        OrderStatus  `json:"status"`
	TotalAmount   float64      `json:"total_amount"`
	OrderedAt     time.Time    `json:"ordered_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
