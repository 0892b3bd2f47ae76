package repository

import (
	"context"

	"github.com/bcod/campus-market/internal/domain"
)

// UserRepository defines the interface for user data access.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	// Create persists a new user with its role set and returns the stored row
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// GetByID retrieves a user by numeric id
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update persists changes to username and phone
	Update(ctx context.Context, user *domain.User) error
	// ExistsByUsername checks username uniqueness
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// ExistsByEmail checks email uniqueness
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByNIM checks student-ID uniqueness
	ExistsByNIM(ctx context.Context, nim string) (bool, error)
}
