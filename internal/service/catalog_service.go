package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/repository"
	"github.com/bcod/campus-market/pkg/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// CatalogService defines the interface for catalog browsing and admin CRUD
type CatalogService interface {
	// ListProducts returns one catalog page
	ListProducts(ctx context.Context, q repository.ProductQuery) (*domain.ProductPage, error)
	// GetProduct retrieves a single listing, served from cache when warm
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	// CreateProduct adds a listing under the given seller
	CreateProduct(ctx context.Context, sellerID int64, req *dto.ProductRequest) (*domain.Product, error)
	// UpdateProduct replaces a listing's mutable fields
	UpdateProduct(ctx context.Context, id int64, req *dto.ProductRequest) (*domain.Product, error)
	// DeleteProduct removes a listing
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)
	// ListCategories returns all categories
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

// catalogService implements CatalogService
type catalogService struct {
	catalog repository.CatalogRepository
	cache   ProductCache
}

// NewCatalogService creates a new CatalogService. cache may be nil, in which
// case every read goes to the repository.
func NewCatalogService(catalog repository.CatalogRepository, cache ProductCache) CatalogService {
	if cache == nil {
		cache = noopProductCache{}
	}
	return &catalogService{catalog: catalog, cache: cache}
}

// ListProducts returns one catalog page
func (s *catalogService) ListProducts(ctx context.Context, q repository.ProductQuery) (*domain.ProductPage, error) {
	return s.catalog.ListProducts(ctx, q)
}

// GetProduct retrieves a single listing, cache-aside
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	p, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	if err := s.cache.Set(ctx, p); err != nil {
		logger.Get().Warn("product cache set failed", zap.Int64("product_id", id), zap.Error(err))
	}
	return p, nil
}

// CreateProduct adds a listing under the given seller
func (s *catalogService) CreateProduct(ctx context.Context, sellerID int64, req *dto.ProductRequest) (*domain.Product, error) {
	category, err := s.catalog.GetCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	return s.catalog.CreateProduct(ctx, &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Discount:    req.Discount,
		CategoryID:  req.CategoryID,
		SellerID:    sellerID,
	})
}

// UpdateProduct replaces a listing's mutable fields and drops the cache entry
func (s *catalogService) UpdateProduct(ctx context.Context, id int64, req *dto.ProductRequest) (*domain.Product, error) {
	p, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	category, err := s.catalog.GetCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Image = req.Image
	p.Quantity = req.Quantity
	p.Price = req.Price
	p.Discount = req.Discount
	p.CategoryID = req.CategoryID

	if err := s.catalog.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

// DeleteProduct removes a listing and drops the cache entry
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

// ListCategories returns all categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *catalogService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.Get().Warn("product cache invalidate failed", zap.Int64("product_id", id), zap.Error(err))
	}
}
