package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tabelamed/backend/internal/domain/providers"
	"github.com/tabelamed/backend/internal/infrastructure/observability"
)

type contextKey string

const identityContextKey contextKey = "identity"

// AuthMiddleware resolves the bearer token into a caller identity and
// stores it on the request context. Requests without a valid token pass
// through anonymously; each handler decides whether identity is required.
func AuthMiddleware(auth providers.AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := auth.Verify(r.Context(), token)
			if err != nil {
				observability.LoggerFromContext(r.Context()).Debug().
					Err(err).
					Msg("Rejected bearer token")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated caller, or nil for an
// anonymous request
func IdentityFromContext(ctx context.Context) *providers.Identity {
	identity, _ := ctx.Value(identityContextKey).(*providers.Identity)
	return identity
}

// WithIdentity returns a context carrying the given identity; used by tests
// and internal callers
func WithIdentity(ctx context.Context, identity *providers.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
