package providers

import (
	"context"
)

// Identity is the authenticated caller extracted from a request credential.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// AuthProvider validates request credentials and resolves the caller identity.
type AuthProvider interface {
	// Verify parses and validates a bearer token, returning the identity
	// it carries. An invalid or expired token yields an unauthorized error.
	Verify(ctx context.Context, token string) (*Identity, error)
}
