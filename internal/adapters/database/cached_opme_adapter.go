package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/providers"
	"github.com/tabelamed/backend/internal/domain/repositories"
)

// CachedOpmeAdapter wraps OpmeAdapter with the same per-user list caching
// as the package adapters
type CachedOpmeAdapter struct {
	adapter repositories.OpmeRepository
	cache   providers.CacheProvider
}

// NewCachedOpmeAdapter creates a new cached OPME adapter
func NewCachedOpmeAdapter(adapter repositories.OpmeRepository, cache providers.CacheProvider) repositories.OpmeRepository {
	return &CachedOpmeAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

func opmeListCacheKey(userID string) string {
	return fmt.Sprintf("opmes:user:%s", userID)
}

// Create creates an OPME item and invalidates the owner's list cache
func (a *CachedOpmeAdapter) Create(ctx context.Context, item *entities.OpmeItem) error {
	if err := a.adapter.Create(ctx, item); err != nil {
		return err
	}
	a.invalidateUser(item.UserID)
	return nil
}

// GetByID is uncached
func (a *CachedOpmeAdapter) GetByID(ctx context.Context, id string) (*entities.OpmeItem, error) {
	return a.adapter.GetByID(ctx, id)
}

// ListByUser retrieves the user's OPME items with caching
func (a *CachedOpmeAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.OpmeItem, error) {
	cacheKey := opmeListCacheKey(userID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var items []*entities.OpmeItem
		if err := json.Unmarshal(cached, &items); err == nil {
			return items, nil
		}
		log.Printf("Failed to unmarshal cached opme list for %s: %v", userID, err)
	}

	items, err := a.adapter.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(items); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, packageListTTL); err != nil {
				log.Printf("Failed to cache opme list for %s: %v", userID, err)
			}
		}
	}()

	return items, nil
}

// Update updates an OPME item and invalidates the owner's list cache
func (a *CachedOpmeAdapter) Update(ctx context.Context, userID, id string, changes repositories.OpmeUpdate) error {
	if err := a.adapter.Update(ctx, userID, id, changes); err != nil {
		return err
	}
	a.invalidateUser(userID)
	return nil
}

// Delete deletes an OPME item and invalidates the owner's list cache
func (a *CachedOpmeAdapter) Delete(ctx context.Context, userID, id string) error {
	if err := a.adapter.Delete(ctx, userID, id); err != nil {
		return err
	}
	a.invalidateUser(userID)
	return nil
}

func (a *CachedOpmeAdapter) invalidateUser(userID string) {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, opmeListCacheKey(userID)); err != nil {
			log.Printf("Failed to invalidate opme list cache for %s: %v", userID, err)
		}
	}()
}
