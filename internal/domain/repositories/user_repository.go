package repositories

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
)

// UserRepository defines the interface for user lookups
type UserRepository interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (*entities.User, error)
}
