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

// OpmeService manages the user's OPME item library. Unauthenticated calls
// are silent no-ops.
type OpmeService struct {
	items  repositories.OpmeRepository
	events providers.EventBus
}

// NewOpmeService creates a new OPME service
func NewOpmeService(items repositories.OpmeRepository, events providers.EventBus) *OpmeService {
	return &OpmeService{
		items:  items,
		events: events,
	}
}

// Create creates a new OPME item owned by the user
func (s *OpmeService) Create(ctx context.Context, userID, name, description string, value float64) (*entities.OpmeItem, error) {
	if userID == "" {
		return nil, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("opme item name is required")
	}
	if value < 0 {
		return nil, apperrors.NewValidationError("opme item value must not be negative")
	}

	item := &entities.OpmeItem{
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Value:       value,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, item.ID)
	return item, nil
}

// List retrieves the user's OPME items, newest first
func (s *OpmeService) List(ctx context.Context, userID string) ([]*entities.OpmeItem, error) {
	if userID == "" {
		return []*entities.OpmeItem{}, nil
	}
	return s.items.ListByUser(ctx, userID)
}

// Update applies a partial update to the user's OPME item
func (s *OpmeService) Update(ctx context.Context, userID, id string, changes repositories.OpmeUpdate) error {
	if userID == "" {
		return nil
	}
	if id == "" {
		return apperrors.NewValidationError("opme item id is required")
	}
	if changes.Value != nil && *changes.Value < 0 {
		return apperrors.NewValidationError("opme item value must not be negative")
	}

	if err := s.items.Update(ctx, userID, id, changes); err != nil {
		return err
	}

	s.publish(ctx, userID, id)
	return nil
}

// Delete removes the user's OPME item. Packages that still reference it
// keep the dangling id; resolution drops it from computed views.
func (s *OpmeService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return nil
	}
	if id == "" {
		return apperrors.NewValidationError("opme item id is required")
	}

	if err := s.items.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publish(ctx, userID, id)
	return nil
}

func (s *OpmeService) publish(ctx context.Context, userID, entityID string) {
	if s.events == nil {
		return
	}
	event := providers.Event{
		Type:      providers.EventOpmeUpdated,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().Unix(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("event_type", string(providers.EventOpmeUpdated)).
			Msg("Failed to publish opme event")
	}
}
