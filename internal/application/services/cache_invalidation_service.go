package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tabelamed/backend/internal/domain/providers"
)

// CacheInvalidationService clears cached per-user reads when package or
// OPME events arrive on the bus. With multiple API instances sharing one
// Redis, this keeps a mutation on one instance visible through the others'
// caches.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx,
		providers.EventPackageUpdated,
		providers.EventPackageDeleted,
		providers.EventOpmeUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to package events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan providers.Event) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent clears the affected user's cached lists. Entries are keyed
// per user so an event only costs a handful of deletes.
func (s *CacheInvalidationService) handleEvent(event providers.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if event.UserID == "" {
		return
	}

	patterns := []string{
		fmt.Sprintf("packages:user:%s", event.UserID),
		fmt.Sprintf("private_packages:user:%s", event.UserID),
		fmt.Sprintf("opmes:user:%s", event.UserID),
	}
	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			log.Printf("Warning: failed to invalidate cache %s: %v", pattern, err)
		}
	}
}

// InvalidateUserCaches clears every cached read for one user; used by
// maintenance paths rather than the event loop
func (s *CacheInvalidationService) InvalidateUserCaches(ctx context.Context, userID string) error {
	patterns := []string{
		fmt.Sprintf("packages:user:%s", userID),
		fmt.Sprintf("private_packages:user:%s", userID),
		fmt.Sprintf("opmes:user:%s", userID),
	}
	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	return nil
}
