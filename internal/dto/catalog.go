package dto

// ProductRequest is the admin create/update payload for a catalog listing
type ProductRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"required"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity" binding:"min=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Discount    float64 `json:"discount" binding:"min=0,max=100"`
	CategoryID  int64   `json:"categoryId" binding:"required"`
}
