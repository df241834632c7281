package services

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// NotificationService manages the per-user notification inbox. Creation
// happens through the sharing protocol; this service covers the recipient
// side: listing, unread counting, marking read and deleting.
type NotificationService struct {
	notifications repositories.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List retrieves the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string) ([]*entities.Notification, error) {
	if userID == "" {
		return []*entities.Notification{}, nil
	}
	return s.notifications.ListByUser(ctx, userID)
}

// UnreadCount returns how many of the user's notifications are unread
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}

	notifications, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flags a notification as read, scoped to the recipient
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return nil
	}
	if id == "" {
		return apperrors.NewValidationError("notification id is required")
	}
	return s.notifications.MarkRead(ctx, userID, id)
}

// Delete removes a notification, scoped to the recipient. This is also the
// escape hatch for share notifications whose package has since been deleted.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return nil
	}
	if id == "" {
		return apperrors.NewValidationError("notification id is required")
	}
	return s.notifications.Delete(ctx, userID, id)
}
