package repositories

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
)

// FavoriteRepository defines the interface for favorite data operations
type FavoriteRepository interface {
	// Add marks a procedure as a favorite; adding twice is a no-op
	Add(ctx context.Context, userID, procedureID string) error

	// Remove unmarks a procedure
	Remove(ctx context.Context, userID, procedureID string) error

	// ListByUser retrieves the user's favorites, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Favorite, error)
}
