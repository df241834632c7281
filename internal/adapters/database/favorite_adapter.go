package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	"github.com/tabelamed/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// FavoriteAdapter implements FavoriteRepository
type FavoriteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFavoriteAdapter creates a new favorite adapter
func NewFavoriteAdapter(client *postgres.Client) repositories.FavoriteRepository {
	return &FavoriteAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Add marks a procedure as a favorite. The (user, procedure) pair is the
// primary key, so repeated adds hit the conflict clause and stay a no-op.
func (a *FavoriteAdapter) Add(ctx context.Context, userID, procedureID string) error {
	record := goqu.Record{
		"user_id":      userID,
		"procedure_id": procedureID,
		"created_at":   time.Now(),
	}

	query, args, err := a.db.Insert("favorites").
		Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to add favorite", err)
	}

	return nil
}

// Remove unmarks a procedure
func (a *FavoriteAdapter) Remove(ctx context.Context, userID, procedureID string) error {
	query, args, err := a.db.Delete("favorites").
		Where(goqu.Ex{"user_id": userID, "procedure_id": procedureID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to remove favorite", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("favorite for procedure %s not found", procedureID))
	}

	return nil
}

// ListByUser retrieves the user's favorites, newest first
func (a *FavoriteAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Favorite, error) {
	query, args, err := a.db.Select("user_id", "procedure_id", "created_at").
		From("favorites").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list favorites", err)
	}
	defer rows.Close()

	var favorites []*entities.Favorite
	for rows.Next() {
		fav := &entities.Favorite{}
		if err := rows.Scan(&fav.UserID, &fav.ProcedureID, &fav.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan favorite", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating favorites", err)
	}

	return favorites, nil
}
