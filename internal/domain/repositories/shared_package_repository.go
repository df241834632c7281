package repositories

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
)

// SharedPackageRepository defines the interface for share-attempt records
type SharedPackageRepository interface {
	// Create inserts a new share record, normally in pending state
	Create(ctx context.Context, share *entities.SharedPackage) error

	// GetLatestByPackageAndRecipient retrieves the most recent share
	// attempt for a package of the given kind addressed to the given
	// recipient
	GetLatestByPackageAndRecipient(ctx context.Context, packageID, toUser string, kind entities.PackageKind) (*entities.SharedPackage, error)

	// UpdateStatus transitions the pending share record scoped by
	// (package, recipient, kind). A missing row is not an error.
	UpdateStatus(ctx context.Context, packageID, toUser string, kind entities.PackageKind, status entities.ShareStatus) error
}
