package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/repository"
	"github.com/bcod/campus-market/pkg/logger"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotFound       = errors.New("order not found")
	ErrLocationUnavailable = errors.New("cod location unavailable")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
)

// OrderEventTopic is the stream carrying order lifecycle events
const OrderEventTopic = "marketplace.orders"

// EventPublisher pushes order lifecycle events to the event stream.
// Publishing is best effort: checkout never fails because the broker is down.
type EventPublisher interface {
	PublishJSON(ctx context.Context, topic, key string, payload interface{}) error
}

// OrderEvent is the payload published on order lifecycle changes
type OrderEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	UserID     int64     `json:"user_id"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderService defines the interface for checkout and order tracking
type OrderService interface {
	// PlaceOrder checks out the caller's cart to an active pickup spot
	PlaceOrder(ctx context.Context, userID int64, req *dto.PlaceOrderRequest) (*domain.Order, error)
	// GetOrder retrieves one order with items
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	// ListOrders returns the caller's orders, newest first
	ListOrders(ctx context.Context, userID int64) ([]*domain.Order, error)
	// UpdateStatus moves an order through its lifecycle
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
}

// orderService implements OrderService
type orderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	users     repository.UserRepository
	locations repository.CodLocationRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil when the
// event stream is not configured.
func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	users repository.UserRepository,
	locations repository.CodLocationRepository,
	publisher EventPublisher,
) OrderService {
	return &orderService{
		orders:    orders,
		carts:     carts,
		users:     users,
		locations: locations,
		publisher: publisher,
	}
}

// PlaceOrder drains the caller's cart into a PENDING order bound to an
// active pickup spot. The repository runs the write transactionally; stock
// that disappeared since the cart was filled surfaces as insufficient stock.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, req *dto.PlaceOrderRequest) (*domain.Order, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	location, err := s.locations.GetByID(ctx, req.CodLocationID)
	if err != nil {
		return nil, err
	}
	if location == nil || !location.Active {
		return nil, ErrLocationUnavailable
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	cart.Recalculate()

	items := make([]*domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, &domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Discount:  line.Discount,
		})
	}

	order := &domain.Order{
		UserID:        userID,
		Email:         user.Email,
		Items:         items,
		CodLocationID: location.ID,
		Status:        domain.OrderPending,
		TotalAmount:   cart.TotalPrice,
	}

	placed, err := s.orders.Place(ctx, order, cart.ID)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	s.publish(ctx, "order.created", placed)
	return placed, nil
}

// GetOrder retrieves one order with items
func (s *orderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns the caller's orders
func (s *orderService) ListOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.orders.ListByUserID(ctx, userID)
}

// UpdateStatus moves an order through its lifecycle
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	order.Status = domain.OrderStatus(status)
	if err := s.orders.UpdateStatus(ctx, id, order.Status); err != nil {
		return nil, err
	}

	s.publish(ctx, "order.status_changed", order)
	return order, nil
}

func (s *orderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	event := &OrderEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Total:      order.TotalAmount,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishJSON(ctx, OrderEventTopic, uuid.NewString(), event); err != nil {
		logger.Get().Warn("order event publish failed",
			zap.String("type", eventType),
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
}
