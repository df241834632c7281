package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tabelamed/backend/internal/api/middleware"
	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/repositories"
)

// PrivatePackageHandler handles private package HTTP requests
type PrivatePackageHandler struct {
	packages *services.PrivatePackageService
}

// NewPrivatePackageHandler creates a new private package handler
func NewPrivatePackageHandler(packages *services.PrivatePackageService) *PrivatePackageHandler {
	return &PrivatePackageHandler{packages: packages}
}

type createPrivatePackageRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ProcedureIDs     []string `json:"procedure_ids"`
	OpmeIDs          []string `json:"opme_ids"`
	SurgeonValue     float64  `json:"surgeon_value"`
	AnesthetistValue float64  `json:"anesthetist_value"`
	AssistantValue   float64  `json:"assistant_value"`
}

type updatePrivatePackageRequest struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	ProcedureIDs     *[]string `json:"procedure_ids"`
	OpmeIDs          *[]string `json:"opme_ids"`
	SurgeonValue     *float64  `json:"surgeon_value"`
	AnesthetistValue *float64  `json:"anesthetist_value"`
	AssistantValue   *float64  `json:"assistant_value"`
}

// ListPrivatePackages handles GET /api/private-packages
func (h *PrivatePackageHandler) ListPrivatePackages(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if identity := middleware.IdentityFromContext(r.Context()); identity != nil {
		userID = identity.ID
	}

	packages, err := h.packages.List(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"packages": packages,
		"count":    len(packages),
	})
}

// CreatePrivatePackage handles POST /api/private-packages
func (h *PrivatePackageHandler) CreatePrivatePackage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createPrivatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pkg, warnings, err := h.packages.Create(r.Context(), identity.ID, services.PrivatePackageInput{
		Name:             req.Name,
		Description:      req.Description,
		ProcedureIDs:     req.ProcedureIDs,
		OpmeIDs:          req.OpmeIDs,
		SurgeonValue:     req.SurgeonValue,
		AnesthetistValue: req.AnesthetistValue,
		AssistantValue:   req.AssistantValue,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	response := map[string]interface{}{"package": pkg}
	if len(warnings) > 0 {
		response["warnings"] = warnings
	}
	respondWithJSON(w, http.StatusCreated, response)
}

// UpdatePrivatePackage handles PATCH /api/private-packages/{id}
func (h *PrivatePackageHandler) UpdatePrivatePackage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	var req updatePrivatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changes := repositories.PrivatePackageUpdate{
		Name:             req.Name,
		Description:      req.Description,
		ProcedureIDs:     req.ProcedureIDs,
		OpmeIDs:          req.OpmeIDs,
		SurgeonValue:     req.SurgeonValue,
		AnesthetistValue: req.AnesthetistValue,
		AssistantValue:   req.AssistantValue,
	}
	if err := h.packages.Update(r.Context(), identity.ID, id, changes); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePrivatePackage handles DELETE /api/private-packages/{id}
func (h *PrivatePackageHandler) DeletePrivatePackage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.packages.Delete(r.Context(), identity.ID, r.PathValue("id")); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
