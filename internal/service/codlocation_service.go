package service

import (
	"context"
	"errors"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/repository"
)

var ErrLocationNotFound = errors.New("cod location not found")

// CodLocationService defines the interface for pickup-spot management
type CodLocationService interface {
	// ListActive returns spots currently offered to buyers
	ListActive(ctx context.Context) ([]*domain.CodLocation, error)
	// List returns every spot including deactivated ones (admin)
	List(ctx context.Context) ([]*domain.CodLocation, error)
	// Create adds a new spot
	Create(ctx context.Context, req *dto.CodLocationRequest) (*domain.CodLocation, error)
	// Update replaces a spot's fields
	Update(ctx context.Context, id int64, req *dto.CodLocationRequest) (*domain.CodLocation, error)
	// SetActive toggles a spot's availability
	SetActive(ctx context.Context, id int64, active bool) (*domain.CodLocation, error)
}

// codLocationService implements CodLocationService
type codLocationService struct {
	locations repository.CodLocationRepository
}

// NewCodLocationService creates a new CodLocationService
func NewCodLocationService(locations repository.CodLocationRepository) CodLocationService {
	return &codLocationService{locations: locations}
}

// ListActive returns spots currently offered to buyers
func (s *codLocationService) ListActive(ctx context.Context) ([]*domain.CodLocation, error) {
	return s.locations.ListActive(ctx)
}

// List returns every spot including deactivated ones
func (s *codLocationService) List(ctx context.Context) ([]*domain.CodLocation, error) {
	return s.locations.List(ctx)
}

// Create adds a new spot. New spots default to active unless the request
// says otherwise.
func (s *codLocationService) Create(ctx context.Context, req *dto.CodLocationRequest) (*domain.CodLocation, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return s.locations.Create(ctx, &domain.CodLocation{
		Name:        req.Name,
		Building:    req.Building,
		Floor:       req.Floor,
		Description: req.Description,
		Active:      active,
	})
}

// Update replaces a spot's fields
func (s *codLocationService) Update(ctx context.Context, id int64, req *dto.CodLocationRequest) (*domain.CodLocation, error) {
	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}

	loc.Name = req.Name
	loc.Building = req.Building
	loc.Floor = req.Floor
	loc.Description = req.Description
	if req.Active != nil {
		loc.Active = *req.Active
	}

	if err := s.locations.Update(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// SetActive toggles a spot's availability
func (s *codLocationService) SetActive(ctx context.Context, id int64, active bool) (*domain.CodLocation, error) {
	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}

	if err := s.locations.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	loc.Active = active
	return loc, nil
}
