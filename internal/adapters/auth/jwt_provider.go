package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tabelamed/backend/internal/domain/providers"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// JWTProvider implements AuthProvider using HMAC-signed JWTs. The token
// carries the user id in the standard sub claim plus name and email.
type JWTProvider struct {
	secret []byte
}

// NewJWTProvider creates a new JWT auth provider
func NewJWTProvider(secret string) providers.AuthProvider {
	return &JWTProvider{secret: []byte(secret)}
}

type userClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify parses and validates a bearer token
func (p *JWTProvider) Verify(ctx context.Context, token string) (*providers.Identity, error) {
	claims := &userClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}

	return &providers.Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
