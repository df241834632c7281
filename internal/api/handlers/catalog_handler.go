package handlers

import (
	"net/http"

	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/entities"
)

// CatalogHandler handles procedure catalog HTTP requests
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// SearchProcedures handles GET /api/procedures
func (h *CatalogHandler) SearchProcedures(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	filter := services.SearchFilter{
		Region: entities.Region(r.URL.Query().Get("region")),
		Type:   entities.ProcedureType(r.URL.Query().Get("type")),
	}

	procedures, err := h.catalog.Search(r.Context(), query, filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"procedures": procedures,
		"count":      len(procedures),
	})
}

// GetProcedure handles GET /api/procedures/{id}
func (h *CatalogHandler) GetProcedure(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "procedure ID is required")
		return
	}

	procedure, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, procedure)
}
