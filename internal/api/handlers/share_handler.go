package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tabelamed/backend/internal/api/middleware"
	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/entities"
)

// ShareHandler handles the package sharing protocol HTTP requests
type ShareHandler struct {
	sharing *services.SharingService
}

// NewShareHandler creates a new share handler
func NewShareHandler(sharing *services.SharingService) *ShareHandler {
	return &ShareHandler{sharing: sharing}
}

type sharePackageRequest struct {
	PackageID   string `json:"package_id"`
	ToUserID    string `json:"to_user_id"`
	PackageType string `json:"package_type"`
}

// shareDecisionRequest is the accept/reject body. The payload is the one
// delivered inside the notification and may be a JSON object or a
// JSON-encoded string.
type shareDecisionRequest struct {
	NotificationID string          `json:"notification_id"`
	Payload        json.RawMessage `json:"payload"`
}

// SharePackage handles POST /api/shares
func (h *ShareHandler) SharePackage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req sharePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := entities.PackageKind(req.PackageType)
	if kind == "" {
		kind = entities.KindStandard
	}

	if err := h.sharing.SharePackage(r.Context(), identity.ID, req.PackageID, req.ToUserID, kind); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"status": string(entities.ShareStatusPending)})
}

// AcceptShare handles POST /api/shares/accept
func (h *ShareHandler) AcceptShare(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req shareDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sharing.AcceptShare(r.Context(), identity.ID, req.NotificationID, req.Payload); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": string(entities.ShareStatusAccepted)})
}

// RejectShare handles POST /api/shares/reject
func (h *ShareHandler) RejectShare(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req shareDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sharing.RejectShare(r.Context(), identity.ID, req.NotificationID, req.Payload); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": string(entities.ShareStatusRejected)})
}
