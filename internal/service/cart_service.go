package service

import (
	"context"
	"errors"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/repository"
)

var (
	ErrItemNotFound      = errors.New("item not in cart")
	ErrInsufficientStock = errors.New("insufficient product stock")
)

// CartService defines the interface for cart operations
type CartService interface {
	// GetCart returns the caller's cart, creating an empty one on first use
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	// AddItem puts a product in the cart or bumps an existing line
	AddItem(ctx context.Context, userID int64, req *dto.AddCartItemRequest) (*domain.Cart, error)
	// UpdateItemQuantity sets a line's quantity; zero removes the line
	UpdateItemQuantity(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error)
	// RemoveItem drops a line from the cart
	RemoveItem(ctx context.Context, userID, productID int64) (*domain.Cart, error)
}

// cartService implements CartService
type cartService struct {
	carts   repository.CartRepository
	catalog repository.CatalogRepository
}

// NewCartService creates a new CartService
func NewCartService(carts repository.CartRepository, catalog repository.CatalogRepository) CartService {
	return &cartService{carts: carts, catalog: catalog}
}

// GetCart returns the caller's cart
func (s *cartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Recalculate()
	return cart, nil
}

// AddItem puts a product in the cart, capturing its current price and
// discount. Stock is checked against the combined quantity so a line can
// never grow past what is available.
func (s *cartService) AddItem(ctx context.Context, userID int64, req *dto.AddCartItemRequest) (*domain.Cart, error) {
	product, err := s.catalog.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var existing *domain.CartItem
	for _, item := range cart.Items {
		if item.ProductID == req.ProductID {
			existing = item
			break
		}
	}

	wanted := req.Quantity
	if existing != nil {
		wanted += existing.Quantity
	}
	if !product.InStock(wanted) {
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		existing.Quantity = wanted
		if err := s.carts.UpdateItemQuantity(ctx, cart.ID, req.ProductID, wanted); err != nil {
			return nil, err
		}
	} else {
		item := &domain.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Product:   product,
			Quantity:  req.Quantity,
			Price:     product.Price,
			Discount:  product.Discount,
		}
		if err := s.carts.AddItem(ctx, item); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}

	return s.settle(ctx, cart)
}

// UpdateItemQuantity sets a line's quantity; zero removes the line
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var line *domain.CartItem
	for _, item := range cart.Items {
		if item.ProductID == productID {
			line = item
			break
		}
	}
	if line == nil {
		return nil, ErrItemNotFound
	}

	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.InStock(quantity) {
		return nil, ErrInsufficientStock
	}

	line.Quantity = quantity
	if err := s.carts.UpdateItemQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.settle(ctx, cart)
}

// RemoveItem drops a line from the cart
func (s *cartService) RemoveItem(ctx context.Context, userID, productID int64) (*domain.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID == productID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	cart.Items = kept

	if err := s.carts.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.settle(ctx, cart)
}

// settle recomputes and persists the cart total
func (s *cartService) settle(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	cart.Recalculate()
	if err := s.carts.UpdateTotal(ctx, cart.ID, cart.TotalPrice); err != nil {
		return nil, err
	}
	return cart, nil
}
