package repositories

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
)

// OpmeRepository defines the interface for OPME item data operations
type OpmeRepository interface {
	// Create creates a new OPME item
	Create(ctx context.Context, item *entities.OpmeItem) error

	// GetByID retrieves an OPME item by id
	GetByID(ctx context.Context, id string) (*entities.OpmeItem, error)

	// ListByUser retrieves the user's OPME items, newest-created first
	ListByUser(ctx context.Context, userID string) ([]*entities.OpmeItem, error)

	// Update applies a partial update scoped to (id, owner)
	Update(ctx context.Context, userID, id string, changes OpmeUpdate) error

	// Delete deletes the item scoped to (id, owner)
	Delete(ctx context.Context, userID, id string) error
}

// OpmeUpdate carries partial changes; nil fields are left untouched
type OpmeUpdate struct {
	Name        *string
	Description *string
	Value       *float64
}
