package repository

import (
	"context"

	"github.com/bcod/campus-market/internal/domain"
)

// ProductQuery captures catalog pagination, filtering and sorting
type ProductQuery struct {
	Keyword    string
	CategoryID int64
	PageNumber int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// CatalogRepository defines the interface for category and product data access
type CatalogRepository interface {
	// CreateProduct persists a new product and returns the stored row
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// GetProductByID retrieves a product, nil when absent
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	// UpdateProduct persists changes to a product
	UpdateProduct(ctx context.Context, p *domain.Product) error
	// DeleteProduct removes a product
	DeleteProduct(ctx context.Context, id int64) error
	// ListProducts returns one page of products matching the query
	ListProducts(ctx context.Context, q ProductQuery) (*domain.ProductPage, error)
	// GetCategoryByID retrieves a category, nil when absent
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	// ListCategories returns all categories
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}
