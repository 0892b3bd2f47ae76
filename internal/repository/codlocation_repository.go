package repository

import (
	"context"

	"github.com/bcod/campus-market/internal/domain"
)

// CodLocationRepository defines the interface for pickup-spot data access
type CodLocationRepository interface {
	// Create persists a new location and returns the stored row
	Create(ctx context.Context, loc *domain.CodLocation) (*domain.CodLocation, error)
	// GetByID retrieves a location, nil when absent
	GetByID(ctx context.Context, id int64) (*domain.CodLocation, error)
	// Update persists changes to a location
	Update(ctx context.Context, loc *domain.CodLocation) error
	// SetActive toggles availability
	SetActive(ctx context.Context, id int64, active bool) error
	// ListActive returns locations currently available for pickup
	ListActive(ctx context.Context) ([]*domain.CodLocation, error)
	// List returns every location including inactive ones
	List(ctx context.Context) ([]*domain.CodLocation, error)
}
