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

// PrivatePackageInput carries the fields accepted when creating a private
// package
type PrivatePackageInput struct {
	Name             string
	Description      string
	ProcedureIDs     []string
	OpmeIDs          []string
	SurgeonValue     float64
	AnesthetistValue float64
	AssistantValue   float64
}

// PrivatePackageService manages private packages: standard packages plus
// OPME references and per-role fee values. Unauthenticated calls are
// silent no-ops, matching PackageService.
type PrivatePackageService struct {
	packages repositories.PrivatePackageRepository
	events   providers.EventBus
}

// NewPrivatePackageService creates a new private package service
func NewPrivatePackageService(packages repositories.PrivatePackageRepository, events providers.EventBus) *PrivatePackageService {
	return &PrivatePackageService{
		packages: packages,
		events:   events,
	}
}

// Create creates a private package for the user, surfacing join-row
// failures as warnings
func (s *PrivatePackageService) Create(ctx context.Context, userID string, input PrivatePackageInput) (*entities.PrivatePackage, []string, error) {
	if userID == "" {
		return nil, nil, nil
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, apperrors.NewValidationError("package name is required")
	}
	if input.ProcedureIDs == nil {
		input.ProcedureIDs = []string{}
	}
	if input.OpmeIDs == nil {
		input.OpmeIDs = []string{}
	}

	pkg := &entities.PrivatePackage{
		UserID:           userID,
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		ProcedureIDs:     input.ProcedureIDs,
		OpmeIDs:          input.OpmeIDs,
		SurgeonValue:     input.SurgeonValue,
		AnesthetistValue: input.AnesthetistValue,
		AssistantValue:   input.AssistantValue,
	}

	warnings, err := s.packages.Create(ctx, pkg)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, providers.EventPackageUpdated, userID, pkg.ID)
	return pkg, warnings, nil
}

// List retrieves the user's private packages, newest first
func (s *PrivatePackageService) List(ctx context.Context, userID string) ([]*entities.PrivatePackage, error) {
	if userID == "" {
		return []*entities.PrivatePackage{}, nil
	}
	return s.packages.ListByUser(ctx, userID)
}

// Update applies a partial update to the user's private package
func (s *PrivatePackageService) Update(ctx context.Context, userID, id string, changes repositories.PrivatePackageUpdate) error {
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

// Delete removes the user's private package
func (s *PrivatePackageService) Delete(ctx context.Context, userID, id string) error {
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

func (s *PrivatePackageService) publish(ctx context.Context, eventType providers.EventType, userID, entityID string) {
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
			Msg("Failed to publish private package event")
	}
}
