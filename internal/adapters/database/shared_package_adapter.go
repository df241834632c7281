package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	"github.com/tabelamed/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// SharedPackageAdapter implements SharedPackageRepository
type SharedPackageAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSharedPackageAdapter creates a new shared package adapter
func NewSharedPackageAdapter(client *postgres.Client) repositories.SharedPackageRepository {
	return &SharedPackageAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new share record
func (a *SharedPackageAdapter) Create(ctx context.Context, share *entities.SharedPackage) error {
	if share.ID == "" {
		share.ID = uuid.New().String()
	}
	if share.Status == "" {
		share.Status = entities.ShareStatusPending
	}
	now := time.Now()
	share.CreatedAt = now
	share.UpdatedAt = now

	record := goqu.Record{
		"id":           share.ID,
		"package_id":   share.PackageID,
		"package_type": string(share.PackageType),
		"from_user":    share.FromUser,
		"to_user":      share.ToUser,
		"status":       string(share.Status),
		"created_at":   share.CreatedAt,
		"updated_at":   share.UpdatedAt,
	}

	query, args, err := a.db.Insert("shared_packages").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create share record", err)
	}

	return nil
}

// GetLatestByPackageAndRecipient retrieves the most recent share attempt
// for a package of the given kind addressed to the given recipient. Shares
// of the same package to other recipients are separate attempts and never
// show up here.
func (a *SharedPackageAdapter) GetLatestByPackageAndRecipient(ctx context.Context, packageID, toUser string, kind entities.PackageKind) (*entities.SharedPackage, error) {
	query, args, err := a.db.Select(
		"id", "package_id", "package_type", "from_user", "to_user",
		"status", "created_at", "updated_at",
	).From("shared_packages").
		Where(goqu.Ex{
			"package_id":   packageID,
			"to_user":      toUser,
			"package_type": string(kind),
		}).
		Order(goqu.I("created_at").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	share := &entities.SharedPackage{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&share.ID,
		&share.PackageID,
		&share.PackageType,
		&share.FromUser,
		&share.ToUser,
		&share.Status,
		&share.CreatedAt,
		&share.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no share record for package %s", packageID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get share record", err)
	}

	return share, nil
}

// UpdateStatus transitions pending share records scoped by (package,
// recipient, kind). Rows already accepted or rejected are left untouched,
// so a later re-share cannot rewrite a settled decision. Zero affected
// rows is not an error; the share may predate the record table or have
// been pruned.
func (a *SharedPackageAdapter) UpdateStatus(ctx context.Context, packageID, toUser string, kind entities.PackageKind, status entities.ShareStatus) error {
	query, args, err := a.db.Update("shared_packages").
		Set(goqu.Record{
			"status":     string(status),
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{
			"package_id":   packageID,
			"to_user":      toUser,
			"package_type": string(kind),
			"status":       string(entities.ShareStatusPending),
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update share status", err)
	}

	return nil
}
