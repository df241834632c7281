package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// NotificationAdapter implements NotificationRepository on top of sqlx.
// The share payload is stored as a JSONB column.
type NotificationAdapter struct {
	db *sqlx.DB
}

// NewNotificationAdapter creates a new notification adapter
func NewNotificationAdapter(db *sqlx.DB) repositories.NotificationRepository {
	return &NotificationAdapter{db: db}
}

type notificationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Payload   []byte    `db:"payload"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

// Create inserts a notification for its recipient
func (a *NotificationAdapter) Create(ctx context.Context, notification *entities.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return apperrors.NewInternalError("failed to encode notification payload", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, type, payload, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = a.db.ExecContext(ctx, query,
		notification.ID, notification.UserID, string(notification.Type),
		payload, notification.Read, notification.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to create notification", err)
	}

	return nil
}

// ListByUser retrieves the recipient's notifications, newest first
func (a *NotificationAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Notification, error) {
	var rows []notificationRow
	query := `SELECT id, user_id, type, payload, read, created_at FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	if err := a.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}

	notifications := make([]*entities.Notification, 0, len(rows))
	for _, row := range rows {
		notification := &entities.Notification{
			ID:        row.ID,
			UserID:    row.UserID,
			Type:      entities.NotificationType(row.Type),
			Read:      row.Read,
			CreatedAt: row.CreatedAt,
		}
		if len(row.Payload) > 0 {
			payload, err := entities.ParseSharePayload(json.RawMessage(row.Payload))
			if err != nil {
				return nil, apperrors.NewInternalError(
					fmt.Sprintf("notification %s has an undecodable payload", row.ID), err)
			}
			notification.Payload = *payload
		}
		notifications = append(notifications, notification)
	}

	return notifications, nil
}

// MarkRead sets read=true scoped to (id, recipient)
func (a *NotificationAdapter) MarkRead(ctx context.Context, userID, id string) error {
	query := `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`
	result, err := a.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperrors.NewInternalError("failed to mark notification read", err)
	}
	return requireAffected(result, fmt.Sprintf("notification with id %s not found", id))
}

// Delete removes the notification scoped to (id, recipient)
func (a *NotificationAdapter) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	result, err := a.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperrors.NewInternalError("failed to delete notification", err)
	}
	return requireAffected(result, fmt.Sprintf("notification with id %s not found", id))
}

func requireAffected(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return nil
}
