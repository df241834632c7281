package handlers

import (
	"net/http"

	"github.com/tabelamed/backend/internal/api/middleware"
	"github.com/tabelamed/backend/internal/application/services"
)

// FavoriteHandler handles favorite procedure HTTP requests
type FavoriteHandler struct {
	favorites *services.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// ListFavorites handles GET /api/favorites and returns the resolved
// procedures, not bare ids
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if identity := middleware.IdentityFromContext(r.Context()); identity != nil {
		userID = identity.ID
	}

	procedures, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": procedures,
		"count":     len(procedures),
	})
}

// AddFavorite handles PUT /api/favorites/{procedureId}
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.favorites.Add(r.Context(), identity.ID, r.PathValue("procedureId")); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/favorites/{procedureId}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.favorites.Remove(r.Context(), identity.ID, r.PathValue("procedureId")); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
