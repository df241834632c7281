package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tabelamed/backend/internal/api/middleware"
	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/repositories"
)

// PackageHandler handles standard package HTTP requests
type PackageHandler struct {
	packages *services.PackageService
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(packages *services.PackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

type createPackageRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ProcedureIDs []string `json:"procedure_ids"`
}

type updatePackageRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	ProcedureIDs *[]string `json:"procedure_ids"`
}

// ListPackages handles GET /api/packages. Anonymous callers get an empty
// list rather than an error.
func (h *PackageHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
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

// CreatePackage handles POST /api/packages
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createPackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pkg, warnings, err := h.packages.Create(r.Context(), identity.ID, req.Name, req.Description, req.ProcedureIDs)
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

// UpdatePackage handles PATCH /api/packages/{id}
func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	var req updatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changes := repositories.PackageUpdate{
		Name:         req.Name,
		Description:  req.Description,
		ProcedureIDs: req.ProcedureIDs,
	}
	if err := h.packages.Update(r.Context(), identity.ID, id, changes); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePackage handles DELETE /api/packages/{id}
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
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
