package domain

import (
	"time"
)

// Category groups products for browsing
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product represents a catalog listing
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount"` // percentage, 0-100
	CategoryID  int64     `json:"category_id"`
	SellerID    int64     `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SpecialPrice returns the effective price after discount
func (p *Product) SpecialPrice() float64 {
	return p.Price - (p.Discount/100.0)*p.Price
}

// InStock reports whether the requested quantity is available
func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && p.Quantity >= quantity
}

// ProductPage is one page of catalog results
type ProductPage struct {
	Content       []*Product `json:"content"`
	PageNumber    int        `json:"pageNumber"`
	PageSize      int        `json:"pageSize"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	LastPage      bool       `json:"lastPage"`
}
