package services

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// FavoriteService manages per-user favorite procedures and resolves them
// against the live catalog. Unauthenticated calls are silent no-ops.
type FavoriteService struct {
	favorites repositories.FavoriteRepository
	catalog   *CatalogService
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favorites repositories.FavoriteRepository, catalog *CatalogService) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		catalog:   catalog,
	}
}

// Add marks a procedure as a favorite; adding an existing favorite is a
// no-op. The procedure must exist in the catalog.
func (s *FavoriteService) Add(ctx context.Context, userID, procedureID string) error {
	if userID == "" {
		return nil
	}
	if procedureID == "" {
		return apperrors.NewValidationError("procedure id is required")
	}

	if _, err := s.catalog.GetByID(ctx, procedureID); err != nil {
		return err
	}

	return s.favorites.Add(ctx, userID, procedureID)
}

// Remove unmarks a procedure
func (s *FavoriteService) Remove(ctx context.Context, userID, procedureID string) error {
	if userID == "" {
		return nil
	}
	if procedureID == "" {
		return apperrors.NewValidationError("procedure id is required")
	}
	return s.favorites.Remove(ctx, userID, procedureID)
}

// List resolves the user's favorites against the catalog, newest first.
// Favorites pointing at ids no longer in the catalog are dropped silently.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]entities.Procedure, error) {
	if userID == "" {
		return []entities.Procedure{}, nil
	}

	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(favorites))
	for _, fav := range favorites {
		ids = append(ids, fav.ProcedureID)
	}

	return s.catalog.GetByIDs(ctx, ids)
}
