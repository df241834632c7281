package repositories

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
)

// NotificationRepository defines the interface for the per-user inbox
type NotificationRepository interface {
	// Create inserts a notification for its recipient
	Create(ctx context.Context, notification *entities.Notification) error

	// ListByUser retrieves the recipient's notifications, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Notification, error)

	// MarkRead sets read=true scoped to (id, recipient)
	MarkRead(ctx context.Context, userID, id string) error

	// Delete removes the notification scoped to (id, recipient)
	Delete(ctx context.Context, userID, id string) error
}
