package services

import (
	"context"
	"strings"
	"time"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/providers"
	"github.com/tabelamed/backend/internal/domain/repositories"
	"github.com/tabelamed/backend/internal/infrastructure/observability"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// PackageService manages the user's standard procedure packages. Every
// operation is silently a no-op for an unauthenticated caller: lists come
// back empty and mutations succeed without touching anything.
type PackageService struct {
	packages repositories.PackageRepository
	events   providers.EventBus
}

// NewPackageService creates a new package service
func NewPackageService(packages repositories.PackageRepository, events providers.EventBus) *PackageService {
	return &PackageService{
		packages: packages,
		events:   events,
	}
}

// Create creates a package for the user. The returned warnings surface
// join-row failures on an otherwise successful create.
func (s *PackageService) Create(ctx context.Context, userID, name, description string, procedureIDs []string) (*entities.ProcedurePackage, []string, error) {
	if userID == "" {
		return nil, nil, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, nil, apperrors.NewValidationError("package name is required")
	}
	if procedureIDs == nil {
		procedureIDs = []string{}
	}

	pkg := &entities.ProcedurePackage{
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		Description:  description,
		ProcedureIDs: procedureIDs,
	}

	warnings, err := s.packages.Create(ctx, pkg)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, providers.EventPackageUpdated, userID, pkg.ID)
	return pkg, warnings, nil
}

// List retrieves the user's packages, newest first
func (s *PackageService) List(ctx context.Context, userID string) ([]*entities.ProcedurePackage, error) {
	if userID == "" {
		return []*entities.ProcedurePackage{}, nil
	}
	return s.packages.ListByUser(ctx, userID)
}

// Update applies a partial update to the user's package
func (s *PackageService) Update(ctx context.Context, userID, id string, changes repositories.PackageUpdate) error {
	if userID == "" {
		return nil
	}
	if id == "" {
		return apperrors.NewValidationError("package id is required")
	}

	if err := s.packages.Update(ctx, userID, id, changes); err != nil {
		return err
	}

	s.publish(ctx, providers.EventPackageUpdated, userID, id)
	return nil
}

// Delete removes the user's package
func (s *PackageService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return nil
	}
	if id == "" {
		return apperrors.NewValidationError("package id is required")
	}

	if err := s.packages.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publish(ctx, providers.EventPackageDeleted, userID, id)
	return nil
}

func (s *PackageService) publish(ctx context.Context, eventType providers.EventType, userID, entityID string) {
	if s.events == nil {
		return
	}
	event := providers.Event{
		Type:      eventType,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().Unix(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Msg("Failed to publish package event")
	}
}
