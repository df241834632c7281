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

// PrivatePackageAdapter implements PrivatePackageRepository
type PrivatePackageAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPrivatePackageAdapter creates a new private package adapter
func NewPrivatePackageAdapter(client *postgres.Client) repositories.PrivatePackageRepository {
	return &PrivatePackageAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates the private package row, then its procedure and OPME join
// rows. Join failures become warnings; the parent row is authoritative.
func (a *PrivatePackageAdapter) Create(ctx context.Context, pkg *entities.PrivatePackage) ([]string, error) {
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	now := time.Now()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	record := goqu.Record{
		"id":                pkg.ID,
		"user_id":           pkg.UserID,
		"name":              pkg.Name,
		"description":       sql.NullString{String: pkg.Description, Valid: pkg.Description != ""},
		"surgeon_value":     pkg.SurgeonValue,
		"anesthetist_value": pkg.AnesthetistValue,
		"assistant_value":   pkg.AssistantValue,
		"created_at":        pkg.CreatedAt,
		"updated_at":        pkg.UpdatedAt,
	}

	query, args, err := a.db.Insert("private_packages").Rows(record).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to create private package", err)
	}

	var warnings []string
	warnings = append(warnings, a.insertJoins(ctx, "private_package_procedures", "procedure_id", pkg.ID, pkg.ProcedureIDs)...)
	warnings = append(warnings, a.insertJoins(ctx, "private_package_opmes", "opme_id", pkg.ID, pkg.OpmeIDs)...)
	return warnings, nil
}

func (a *PrivatePackageAdapter) insertJoins(ctx context.Context, table, column, packageID string, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(ids))
	for i, refID := range ids {
		rows = append(rows, goqu.Record{
			"package_id": packageID,
			column:       refID,
			"position":   i,
		})
	}

	query, args, err := a.db.Insert(table).Rows(rows...).ToSQL()
	if err != nil {
		return []string{fmt.Sprintf("failed to build %s link query: %v", table, err)}
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("package_id", packageID).
			Str("table", table).
			Msg("Private package created but link rows failed")
		return []string{fmt.Sprintf("failed to write %s links for package %s: %v", column, packageID, err)}
	}
	return nil
}

// GetByID retrieves a private package with its reference ids, unscoped by
// owner for the sharing accept path
func (a *PrivatePackageAdapter) GetByID(ctx context.Context, id string) (*entities.PrivatePackage, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "name", "description",
		"surgeon_value", "anesthetist_value", "assistant_value",
		"created_at", "updated_at",
	).From("private_packages").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	pkg := &entities.PrivatePackage{}
	var description sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&pkg.ID,
		&pkg.UserID,
		&pkg.Name,
		&description,
		&pkg.SurgeonValue,
		&pkg.AnesthetistValue,
		&pkg.AssistantValue,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("private package with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get private package", err)
	}
	pkg.Description = description.String

	if err := a.attachJoins(ctx, []*entities.PrivatePackage{pkg}); err != nil {
		return nil, err
	}

	return pkg, nil
}

// ListByUser retrieves the user's private packages, newest-created first
func (a *PrivatePackageAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.PrivatePackage, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "name", "description",
		"surgeon_value", "anesthetist_value", "assistant_value",
		"created_at", "updated_at",
	).From("private_packages").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list private packages", err)
	}
	defer rows.Close()

	var packages []*entities.PrivatePackage
	for rows.Next() {
		pkg := &entities.PrivatePackage{}
		var description sql.NullString
		err := rows.Scan(
			&pkg.ID,
			&pkg.UserID,
			&pkg.Name,
			&description,
			&pkg.SurgeonValue,
			&pkg.AnesthetistValue,
			&pkg.AssistantValue,
			&pkg.CreatedAt,
			&pkg.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan private package", err)
		}
		pkg.Description = description.String
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating private packages", err)
	}

	if err := a.attachJoins(ctx, packages); err != nil {
		return nil, err
	}

	return packages, nil
}

func (a *PrivatePackageAdapter) attachJoins(ctx context.Context, packages []*entities.PrivatePackage) error {
	if len(packages) == 0 {
		return nil
	}

	ids := make([]string, 0, len(packages))
	byID := make(map[string]*entities.PrivatePackage, len(packages))
	for _, pkg := range packages {
		pkg.ProcedureIDs = []string{}
		pkg.OpmeIDs = []string{}
		ids = append(ids, pkg.ID)
		byID[pkg.ID] = pkg
	}

	procedures, err := a.loadJoins(ctx, "private_package_procedures", "procedure_id", ids)
	if err != nil {
		return err
	}
	for packageID, refs := range procedures {
		byID[packageID].ProcedureIDs = refs
	}

	opmes, err := a.loadJoins(ctx, "private_package_opmes", "opme_id", ids)
	if err != nil {
		return err
	}
	for packageID, refs := range opmes {
		byID[packageID].OpmeIDs = refs
	}

	return nil
}

func (a *PrivatePackageAdapter) loadJoins(ctx context.Context, table, column string, packageIDs []string) (map[string][]string, error) {
	query, args, err := a.db.Select("package_id", column).
		From(table).
		Where(goqu.Ex{"package_id": packageIDs}).
		Order(goqu.I("package_id").Asc(), goqu.I("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build join query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to load %s", table), err)
	}
	defer rows.Close()

	joins := make(map[string][]string)
	for rows.Next() {
		var packageID, refID string
		if err := rows.Scan(&packageID, &refID); err != nil {
			return nil, apperrors.NewInternalError(fmt.Sprintf("failed to scan %s row", table), err)
		}
		joins[packageID] = append(joins[packageID], refID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("error iterating %s", table), err)
	}
	return joins, nil
}

// Update applies a partial update scoped to (id, owner). Non-nil id slices
// replace their whole join set.
func (a *PrivatePackageAdapter) Update(ctx context.Context, userID, id string, changes repositories.PrivatePackageUpdate) error {
	record := goqu.Record{
		"updated_at": time.Now(),
	}
	if changes.Name != nil {
		record["name"] = *changes.Name
	}
	if changes.Description != nil {
		record["description"] = sql.NullString{String: *changes.Description, Valid: *changes.Description != ""}
	}
	if changes.SurgeonValue != nil {
		record["surgeon_value"] = *changes.SurgeonValue
	}
	if changes.AnesthetistValue != nil {
		record["anesthetist_value"] = *changes.AnesthetistValue
	}
	if changes.AssistantValue != nil {
		record["assistant_value"] = *changes.AssistantValue
	}

	query, args, err := a.db.Update("private_packages").
		Set(record).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update private package", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("private package with id %s not found", id))
	}

	if changes.ProcedureIDs != nil {
		if err := a.replaceJoins(ctx, "private_package_procedures", "procedure_id", id, *changes.ProcedureIDs); err != nil {
			return err
		}
	}
	if changes.OpmeIDs != nil {
		if err := a.replaceJoins(ctx, "private_package_opmes", "opme_id", id, *changes.OpmeIDs); err != nil {
			return err
		}
	}

	return nil
}

func (a *PrivatePackageAdapter) replaceJoins(ctx context.Context, table, column, packageID string, ids []string) error {
	query, args, err := a.db.Delete(table).
		Where(goqu.Ex{"package_id": packageID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build join delete query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to clear %s", table), err)
	}

	if warnings := a.insertJoins(ctx, table, column, packageID, ids); len(warnings) > 0 {
		return apperrors.NewInternalError(warnings[0], nil)
	}
	return nil
}

// Delete deletes the private package scoped to (id, owner); join rows cascade
func (a *PrivatePackageAdapter) Delete(ctx context.Context, userID, id string) error {
	query, args, err := a.db.Delete("private_packages").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete private package", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("private package with id %s not found", id))
	}

	return nil
}
