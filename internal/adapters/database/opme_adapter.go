package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	"github.com/tabelamed/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// OpmeAdapter implements OpmeRepository
type OpmeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOpmeAdapter creates a new OPME item adapter
func NewOpmeAdapter(client *postgres.Client) repositories.OpmeRepository {
	return &OpmeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new OPME item
func (a *OpmeAdapter) Create(ctx context.Context, item *entities.OpmeItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	record := goqu.Record{
		"id":          item.ID,
		"user_id":     item.UserID,
		"name":        item.Name,
		"description": sql.NullString{String: item.Description, Valid: item.Description != ""},
		"value":       item.Value,
		"created_at":  item.CreatedAt,
		"updated_at":  item.UpdatedAt,
	}

	query, args, err := a.db.Insert("opmes").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create opme item", err)
	}

	return nil
}

// GetByID retrieves an OPME item by id
func (a *OpmeAdapter) GetByID(ctx context.Context, id string) (*entities.OpmeItem, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "name", "description", "value", "created_at", "updated_at",
	).From("opmes").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	item := &entities.OpmeItem{}
	var description sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&description,
		&item.Value,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("opme item with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get opme item", err)
	}
	item.Description = description.String

	return item, nil
}

// ListByUser retrieves the user's OPME items, newest-created first
func (a *OpmeAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.OpmeItem, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "name", "description", "value", "created_at", "updated_at",
	).From("opmes").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list opme items", err)
	}
	defer rows.Close()

	var items []*entities.OpmeItem
	for rows.Next() {
		item := &entities.OpmeItem{}
		var description sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Name,
			&description,
			&item.Value,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan opme item", err)
		}
		item.Description = description.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating opme items", err)
	}

	return items, nil
}

// Update applies a partial update scoped to (id, owner)
func (a *OpmeAdapter) Update(ctx context.Context, userID, id string, changes repositories.OpmeUpdate) error {
	record := goqu.Record{
		"updated_at": time.Now(),
	}
	if changes.Name != nil {
		record["name"] = *changes.Name
	}
	if changes.Description != nil {
		record["description"] = sql.NullString{String: *changes.Description, Valid: *changes.Description != ""}
	}
	if changes.Value != nil {
		record["value"] = *changes.Value
	}

	query, args, err := a.db.Update("opmes").
		Set(record).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update opme item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("opme item with id %s not found", id))
	}

	return nil
}

// Delete deletes the item scoped to (id, owner)
func (a *OpmeAdapter) Delete(ctx context.Context, userID, id string) error {
	query, args, err := a.db.Delete("opmes").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete opme item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("opme item with id %s not found", id))
	}

	return nil
}
