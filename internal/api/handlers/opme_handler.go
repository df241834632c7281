package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tabelamed/backend/internal/api/middleware"
	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/repositories"
)

// OpmeHandler handles OPME item HTTP requests
type OpmeHandler struct {
	items *services.OpmeService
}

// NewOpmeHandler creates a new OPME handler
func NewOpmeHandler(items *services.OpmeService) *OpmeHandler {
	return &OpmeHandler{items: items}
}

type createOpmeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

type updateOpmeRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Value       *float64 `json:"value"`
}

// ListOpmeItems handles GET /api/opmes
func (h *OpmeHandler) ListOpmeItems(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if identity := middleware.IdentityFromContext(r.Context()); identity != nil {
		userID = identity.ID
	}

	items, err := h.items.List(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"opmes": items,
		"count": len(items),
	})
}

// CreateOpmeItem handles POST /api/opmes
func (h *OpmeHandler) CreateOpmeItem(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createOpmeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.items.Create(r.Context(), identity.ID, req.Name, req.Description, req.Value)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

// UpdateOpmeItem handles PATCH /api/opmes/{id}
func (h *OpmeHandler) UpdateOpmeItem(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	var req updateOpmeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changes := repositories.OpmeUpdate{
		Name:        req.Name,
		Description: req.Description,
		Value:       req.Value,
	}
	if err := h.items.Update(r.Context(), identity.ID, id, changes); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteOpmeItem handles DELETE /api/opmes/{id}
func (h *OpmeHandler) DeleteOpmeItem(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.items.Delete(r.Context(), identity.ID, r.PathValue("id")); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
