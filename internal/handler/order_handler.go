package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/security"
	"github.com/bcod/campus-market/internal/service"
	"github.com/bcod/campus-market/pkg/response"
)

// OrderHandler handles checkout and order tracking HTTP requests
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder checks out the caller's cart
// POST /api/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sc := security.FromGin(c)
	order, err := h.orderService.PlaceOrder(c.Request.Context(), sc.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			response.BadRequest(c, "Cart is empty")
		case errors.Is(err, service.ErrLocationUnavailable):
			response.BadRequest(c, "COD location is not available")
		case errors.Is(err, service.ErrInsufficientStock):
			response.BadRequest(c, "Insufficient product stock")
		default:
			response.InternalError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders returns the caller's orders
// GET /api/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	sc := security.FromGin(c)

	orders, err := h.orderService.ListOrders(c.Request.Context(), sc.UserID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order. Buyers only see their own; admins see any.
// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "Order not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	sc := security.FromGin(c)
	if order.UserID != sc.UserID && !sc.HasAnyRole(domain.RoleAdmin, domain.RoleManager) {
		// Hide the order's existence from other buyers
		response.NotFound(c, "Order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus moves an order through its lifecycle
// PUT /api/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			response.BadRequest(c, "Invalid order status")
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, "Order not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, order)
}
