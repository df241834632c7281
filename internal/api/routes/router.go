package routes

import (
	"net/http"

	"github.com/tabelamed/backend/internal/api/handlers"
	"github.com/tabelamed/backend/internal/api/middleware"
	"github.com/tabelamed/backend/internal/domain/providers"
	"github.com/tabelamed/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	catalogHandler        *handlers.CatalogHandler
	packageHandler        *handlers.PackageHandler
	privatePackageHandler *handlers.PrivatePackageHandler
	opmeHandler           *handlers.OpmeHandler
	favoriteHandler       *handlers.FavoriteHandler
	notificationHandler   *handlers.NotificationHandler
	shareHandler          *handlers.ShareHandler

	auth    providers.AuthProvider
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	catalogHandler *handlers.CatalogHandler,
	packageHandler *handlers.PackageHandler,
	privatePackageHandler *handlers.PrivatePackageHandler,
	opmeHandler *handlers.OpmeHandler,
	favoriteHandler *handlers.FavoriteHandler,
	notificationHandler *handlers.NotificationHandler,
	shareHandler *handlers.ShareHandler,
	auth providers.AuthProvider,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		catalogHandler:        catalogHandler,
		packageHandler:        packageHandler,
		privatePackageHandler: privatePackageHandler,
		opmeHandler:           opmeHandler,
		favoriteHandler:       favoriteHandler,
		notificationHandler:   notificationHandler,
		shareHandler:          shareHandler,

		auth:    auth,
		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Catalog endpoints
	r.mux.HandleFunc("GET /api/procedures", r.catalogHandler.SearchProcedures)
	r.mux.HandleFunc("GET /api/procedures/{id}", r.catalogHandler.GetProcedure)

	// Standard package endpoints
	r.mux.HandleFunc("GET /api/packages", r.packageHandler.ListPackages)
	r.mux.HandleFunc("POST /api/packages", r.packageHandler.CreatePackage)
	r.mux.HandleFunc("PATCH /api/packages/{id}", r.packageHandler.UpdatePackage)
	r.mux.HandleFunc("DELETE /api/packages/{id}", r.packageHandler.DeletePackage)

	// Private package endpoints
	r.mux.HandleFunc("GET /api/private-packages", r.privatePackageHandler.ListPrivatePackages)
	r.mux.HandleFunc("POST /api/private-packages", r.privatePackageHandler.CreatePrivatePackage)
	r.mux.HandleFunc("PATCH /api/private-packages/{id}", r.privatePackageHandler.UpdatePrivatePackage)
	r.mux.HandleFunc("DELETE /api/private-packages/{id}", r.privatePackageHandler.DeletePrivatePackage)

	// OPME endpoints
	r.mux.HandleFunc("GET /api/opmes", r.opmeHandler.ListOpmeItems)
	r.mux.HandleFunc("POST /api/opmes", r.opmeHandler.CreateOpmeItem)
	r.mux.HandleFunc("PATCH /api/opmes/{id}", r.opmeHandler.UpdateOpmeItem)
	r.mux.HandleFunc("DELETE /api/opmes/{id}", r.opmeHandler.DeleteOpmeItem)

	// Favorite endpoints
	r.mux.HandleFunc("GET /api/favorites", r.favoriteHandler.ListFavorites)
	r.mux.HandleFunc("PUT /api/favorites/{procedureId}", r.favoriteHandler.AddFavorite)
	r.mux.HandleFunc("DELETE /api/favorites/{procedureId}", r.favoriteHandler.RemoveFavorite)

	// Notification endpoints
	r.mux.HandleFunc("GET /api/notifications", r.notificationHandler.ListNotifications)
	r.mux.HandleFunc("POST /api/notifications/{id}/read", r.notificationHandler.MarkNotificationRead)
	r.mux.HandleFunc("DELETE /api/notifications/{id}", r.notificationHandler.DeleteNotification)

	// Sharing protocol endpoints
	r.mux.HandleFunc("POST /api/shares", r.shareHandler.SharePackage)
	r.mux.HandleFunc("POST /api/shares/accept", r.shareHandler.AcceptShare)
	r.mux.HandleFunc("POST /api/shares/reject", r.shareHandler.RejectShare)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.AuthMiddleware(r.auth)(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
