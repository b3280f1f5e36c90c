package repositories

import (
	"context"

	"github.com/dinewise/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update writes the mutable fields of a user
	Update(ctx context.Context, user *entities.User) error

	// Stats computes a user's activity counters
	Stats(ctx context.Context, userID string) (*entities.ProfileStats, error)
}
