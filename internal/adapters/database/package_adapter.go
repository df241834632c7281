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
	"github.com/tabelamed/backend/internal/infrastructure/observability"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// PackageAdapter implements PackageRepository
type PackageAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPackageAdapter creates a new package adapter
func NewPackageAdapter(client *postgres.Client) repositories.PackageRepository {
	return &PackageAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates the package row, then its procedure join rows. The parent
// insert is authoritative; a join insert failure is downgraded to a warning
// so a half-written package still exists and can be repaired via Update.
func (a *PackageAdapter) Create(ctx context.Context, pkg *entities.ProcedurePackage) ([]string, error) {
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	now := time.Now()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	record := goqu.Record{
		"id":          pkg.ID,
		"user_id":     pkg.UserID,
		"name":        pkg.Name,
		"description": sql.NullString{String: pkg.Description, Valid: pkg.Description != ""},
		"created_at":  pkg.CreatedAt,
		"updated_at":  pkg.UpdatedAt,
	}

	query, args, err := a.db.Insert("packages").Rows(record).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to create package", err)
	}

	warnings := a.insertProcedureJoins(ctx, pkg.ID, pkg.ProcedureIDs)
	return warnings, nil
}

func (a *PackageAdapter) insertProcedureJoins(ctx context.Context, packageID string, procedureIDs []string) []string {
	if len(procedureIDs) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(procedureIDs))
	for i, procID := range procedureIDs {
		rows = append(rows, goqu.Record{
			"package_id":   packageID,
			"procedure_id": procID,
			"position":     i,
		})
	}

	query, args, err := a.db.Insert("package_procedures").Rows(rows...).ToSQL()
	if err != nil {
		return []string{fmt.Sprintf("failed to build procedure link query: %v", err)}
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("package_id", packageID).
			Msg("Package created but procedure links failed")
		return []string{fmt.Sprintf("failed to link procedures to package %s: %v", packageID, err)}
	}
	return nil
}

// GetByID retrieves a package with its procedure ids. Unscoped by owner so
// the sharing accept path can read packages shared from another user.
func (a *PackageAdapter) GetByID(ctx context.Context, id string) (*entities.ProcedurePackage, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "name", "description", "created_at", "updated_at",
	).From("packages").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	pkg := &entities.ProcedurePackage{}
	var description sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&pkg.ID,
		&pkg.UserID,
		&pkg.Name,
		&description,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("package with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get package", err)
	}
	pkg.Description = description.String

	joins, err := a.loadProcedureJoins(ctx, []string{pkg.ID})
	if err != nil {
		return nil, err
	}
	pkg.ProcedureIDs = joins[pkg.ID]
	if pkg.ProcedureIDs == nil {
		pkg.ProcedureIDs = []string{}
	}

	return pkg, nil
}

// ListByUser retrieves the user's packages, newest-created first
func (a *PackageAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.ProcedurePackage, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "name", "description", "created_at", "updated_at",
	).From("packages").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list packages", err)
	}
	defer rows.Close()

	var packages []*entities.ProcedurePackage
	var ids []string
	for rows.Next() {
		pkg := &entities.ProcedurePackage{}
		var description sql.NullString
		err := rows.Scan(
			&pkg.ID,
			&pkg.UserID,
			&pkg.Name,
			&description,
			&pkg.CreatedAt,
			&pkg.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan package", err)
		}
		pkg.Description = description.String
		pkg.ProcedureIDs = []string{}
		packages = append(packages, pkg)
		ids = append(ids, pkg.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating packages", err)
	}

	if len(ids) > 0 {
		joins, err := a.loadProcedureJoins(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, pkg := range packages {
			if procIDs, ok := joins[pkg.ID]; ok {
				pkg.ProcedureIDs = procIDs
			}
		}
	}

	return packages, nil
}

func (a *PackageAdapter) loadProcedureJoins(ctx context.Context, packageIDs []string) (map[string][]string, error) {
	query, args, err := a.db.Select("package_id", "procedure_id").
		From("package_procedures").
		Where(goqu.Ex{"package_id": packageIDs}).
		Order(goqu.I("package_id").Asc(), goqu.I("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build join query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load package procedures", err)
	}
	defer rows.Close()

	joins := make(map[string][]string)
	for rows.Next() {
		var packageID, procedureID string
		if err := rows.Scan(&packageID, &procedureID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan package procedure", err)
		}
		joins[packageID] = append(joins[packageID], procedureID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating package procedures", err)
	}
	return joins, nil
}

// Update applies a partial update scoped to (id, owner). A non-nil
// ProcedureIDs replaces the whole join set.
func (a *PackageAdapter) Update(ctx context.Context, userID, id string, changes repositories.PackageUpdate) error {
	record := goqu.Record{
		"updated_at": time.Now(),
	}
	if changes.Name != nil {
		record["name"] = *changes.Name
	}
	if changes.Description != nil {
		record["description"] = sql.NullString{String: *changes.Description, Valid: *changes.Description != ""}
	}

	query, args, err := a.db.Update("packages").
		Set(record).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update package", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("package with id %s not found", id))
	}

	if changes.ProcedureIDs != nil {
		if err := a.replaceProcedureJoins(ctx, id, *changes.ProcedureIDs); err != nil {
			return err
		}
	}

	return nil
}

func (a *PackageAdapter) replaceProcedureJoins(ctx context.Context, packageID string, procedureIDs []string) error {
	query, args, err := a.db.Delete("package_procedures").
		Where(goqu.Ex{"package_id": packageID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build join delete query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to clear package procedures", err)
	}

	if warnings := a.insertProcedureJoins(ctx, packageID, procedureIDs); len(warnings) > 0 {
		return apperrors.NewInternalError(warnings[0], nil)
	}
	return nil
}

// Delete deletes the package scoped to (id, owner); join rows cascade
func (a *PackageAdapter) Delete(ctx context.Context, userID, id string) error {
	query, args, err := a.db.Delete("packages").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete package", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("package with id %s not found", id))
	}

	return nil
}
