package repositories

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
)

// PackageRepository defines the interface for standard package data operations.
//
// Create is a two-phase operation: the parent row is authoritative, the
// procedure join rows are best-effort. Join-row failures are returned as
// warnings while the create still succeeds.
type PackageRepository interface {
	// Create creates the package and its procedure join rows
	Create(ctx context.Context, pkg *entities.ProcedurePackage) ([]string, error)

	// GetByID retrieves a package with its procedure ids, unscoped by owner.
	// The sharing accept path resolves shared packages through this.
	GetByID(ctx context.Context, id string) (*entities.ProcedurePackage, error)

	// ListByUser retrieves the user's packages, newest-created first
	ListByUser(ctx context.Context, userID string) ([]*entities.ProcedurePackage, error)

	// Update applies a partial update scoped to (id, owner)
	Update(ctx context.Context, userID, id string, changes PackageUpdate) error

	// Delete deletes the package scoped to (id, owner); join rows cascade
	Delete(ctx context.Context, userID, id string) error
}

// PackageUpdate carries partial changes; nil fields are left untouched.
// A non-nil ProcedureIDs replaces the full join-row set.
type PackageUpdate struct {
	Name         *string
	Description  *string
	ProcedureIDs *[]string
}

// PrivatePackageRepository defines the interface for private package data
// operations. Same contract as PackageRepository, with OPME join rows and
// per-role fee values on top.
type PrivatePackageRepository interface {
	Create(ctx context.Context, pkg *entities.PrivatePackage) ([]string, error)
	GetByID(ctx context.Context, id string) (*entities.PrivatePackage, error)
	ListByUser(ctx context.Context, userID string) ([]*entities.PrivatePackage, error)
	Update(ctx context.Context, userID, id string, changes PrivatePackageUpdate) error
	Delete(ctx context.Context, userID, id string) error
}

// PrivatePackageUpdate carries partial changes for a private package
type PrivatePackageUpdate struct {
	Name             *string
	Description      *string
	ProcedureIDs     *[]string
	OpmeIDs          *[]string
	SurgeonValue     *float64
	AnesthetistValue *float64
	AssistantValue   *float64
}
