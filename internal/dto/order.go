package dto

// AddCartItemRequest puts a product into the caller's cart
type AddCartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItemRequest changes a line's quantity; zero removes the line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// PlaceOrderRequest checks out the caller's cart to a pickup spot
type PlaceOrderRequest struct {
	CodLocationID int64 `json:"codLocationId" binding:"required"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle (admin)
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
