package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/security"
	"github.com/bcod/campus-market/internal/service"
	"github.com/bcod/campus-market/pkg/response"
)

// CartHandler handles the authenticated user's cart
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart returns the caller's cart
// GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sc := security.FromGin(c)

	cart, err := h.cartService.GetCart(c.Request.Context(), sc.UserID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem puts a product in the caller's cart
// POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sc := security.FromGin(c)
	cart, err := h.cartService.AddItem(c.Request.Context(), sc.UserID, &req)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItem sets a line's quantity; zero removes the line
// PUT /api/cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sc := security.FromGin(c)
	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), sc.UserID, productID, req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem drops a line from the caller's cart
// DELETE /api/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	sc := security.FromGin(c)
	cart, err := h.cartService.RemoveItem(c.Request.Context(), sc.UserID, productID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		response.NotFound(c, "Product not found")
	case errors.Is(err, service.ErrItemNotFound):
		response.NotFound(c, "Item not in cart")
	case errors.Is(err, service.ErrInsufficientStock):
		response.BadRequest(c, "Insufficient product stock")
	default:
		response.InternalError(c, err)
	}
}
