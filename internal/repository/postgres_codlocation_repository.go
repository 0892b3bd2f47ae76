package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcod/campus-market/internal/domain"
)

// PostgresCodLocationRepository implements CodLocationRepository using PostgreSQL
type PostgresCodLocationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCodLocationRepository creates a new PostgresCodLocationRepository
func NewPostgresCodLocationRepository(pool *pgxpool.Pool) *PostgresCodLocationRepository {
	return &PostgresCodLocationRepository{pool: pool}
}

// Create persists a new location
func (r *PostgresCodLocationRepository) Create(ctx context.Context, loc *domain.CodLocation) (*domain.CodLocation, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cod_locations (name, building, floor, description, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, loc.Name, loc.Building, loc.Floor, loc.Description, loc.Active).Scan(&loc.ID)
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// GetByID retrieves a location by id
func (r *PostgresCodLocationRepository) GetByID(ctx context.Context, id int64) (*domain.CodLocation, error) {
	loc := &domain.CodLocation{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, building, floor, description, active
		FROM cod_locations WHERE id = $1
	`, id).Scan(&loc.ID, &loc.Name, &loc.Building, &loc.Floor, &loc.Description, &loc.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return loc, nil
}

// Update persists changes to a location
func (r *PostgresCodLocationRepository) Update(ctx context.Context, loc *domain.CodLocation) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE cod_locations
		SET name = $2, building = $3, floor = $4, description = $5, active = $6
		WHERE id = $1
	`, loc.ID, loc.Name, loc.Building, loc.Floor, loc.Description, loc.Active)
	return err
}

// SetActive toggles availability
func (r *PostgresCodLocationRepository) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE cod_locations SET active = $2 WHERE id = $1`, id, active)
	return err
}

// ListActive returns locations currently available for pickup
func (r *PostgresCodLocationRepository) ListActive(ctx context.Context) ([]*domain.CodLocation, error) {
	return r.list(ctx, `SELECT id, name, building, floor, description, active FROM cod_locations WHERE active ORDER BY name`)
}

// List returns every location including inactive ones
func (r *PostgresCodLocationRepository) List(ctx context.Context) ([]*domain.CodLocation, error) {
	return r.list(ctx, `SELECT id, name, building, floor, description, active FROM cod_locations ORDER BY name`)
}

func (r *PostgresCodLocationRepository) list(ctx context.Context, query string) ([]*domain.CodLocation, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []*domain.CodLocation{}
	for rows.Next() {
		loc := &domain.CodLocation{}
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Building, &loc.Floor, &loc.Description, &loc.Active); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
