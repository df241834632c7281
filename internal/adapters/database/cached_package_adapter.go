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

// CachedPackageAdapter wraps PackageAdapter with caching. Only the per-user
// list is cached; mutations invalidate the owner's entry asynchronously.
type CachedPackageAdapter struct {
	adapter repositories.PackageRepository
	cache   providers.CacheProvider
}

// NewCachedPackageAdapter creates a new cached package adapter
func NewCachedPackageAdapter(adapter repositories.PackageRepository, cache providers.CacheProvider) repositories.PackageRepository {
	return &CachedPackageAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	packageListTTL = 180 // 3 minutes for per-user lists
)

func packageListCacheKey(userID string) string {
	return fmt.Sprintf("packages:user:%s", userID)
}

func privatePackageListCacheKey(userID string) string {
	return fmt.Sprintf("private_packages:user:%s", userID)
}

// Create creates a package and invalidates the owner's list cache
func (a *CachedPackageAdapter) Create(ctx context.Context, pkg *entities.ProcedurePackage) ([]string, error) {
	warnings, err := a.adapter.Create(ctx, pkg)
	if err != nil {
		return nil, err
	}
	a.invalidateUser(pkg.UserID)
	return warnings, nil
}

// GetByID is uncached: the accept path must never see a stale snapshot of
// another user's package.
func (a *CachedPackageAdapter) GetByID(ctx context.Context, id string) (*entities.ProcedurePackage, error) {
	return a.adapter.GetByID(ctx, id)
}

// ListByUser retrieves the user's packages with caching
func (a *CachedPackageAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.ProcedurePackage, error) {
	cacheKey := packageListCacheKey(userID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var packages []*entities.ProcedurePackage
		if err := json.Unmarshal(cached, &packages); err == nil {
			return packages, nil
		}
		log.Printf("Failed to unmarshal cached package list for %s: %v", userID, err)
	}

	packages, err := a.adapter.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(packages); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, packageListTTL); err != nil {
				log.Printf("Failed to cache package list for %s: %v", userID, err)
			}
		}
	}()

	return packages, nil
}

// Update updates a package and invalidates the owner's list cache
func (a *CachedPackageAdapter) Update(ctx context.Context, userID, id string, changes repositories.PackageUpdate) error {
	if err := a.adapter.Update(ctx, userID, id, changes); err != nil {
		return err
	}
	a.invalidateUser(userID)
	return nil
}

// Delete deletes a package and invalidates the owner's list cache
func (a *CachedPackageAdapter) Delete(ctx context.Context, userID, id string) error {
	if err := a.adapter.Delete(ctx, userID, id); err != nil {
		return err
	}
	a.invalidateUser(userID)
	return nil
}

func (a *CachedPackageAdapter) invalidateUser(userID string) {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, packageListCacheKey(userID)); err != nil {
			log.Printf("Failed to invalidate package list cache for %s: %v", userID, err)
		}
	}()
}

// CachedPrivatePackageAdapter applies the same list caching to private
// packages
type CachedPrivatePackageAdapter struct {
	adapter repositories.PrivatePackageRepository
	cache   providers.CacheProvider
}

// NewCachedPrivatePackageAdapter creates a new cached private package adapter
func NewCachedPrivatePackageAdapter(adapter repositories.PrivatePackageRepository, cache providers.CacheProvider) repositories.PrivatePackageRepository {
	return &CachedPrivatePackageAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

func (a *CachedPrivatePackageAdapter) Create(ctx context.Context, pkg *entities.PrivatePackage) ([]string, error) {
	warnings, err := a.adapter.Create(ctx, pkg)
	if err != nil {
		return nil, err
	}
	a.invalidateUser(pkg.UserID)
	return warnings, nil
}

func (a *CachedPrivatePackageAdapter) GetByID(ctx context.Context, id string) (*entities.PrivatePackage, error) {
	return a.adapter.GetByID(ctx, id)
}

func (a *CachedPrivatePackageAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.PrivatePackage, error) {
	cacheKey := privatePackageListCacheKey(userID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var packages []*entities.PrivatePackage
		if err := json.Unmarshal(cached, &packages); err == nil {
			return packages, nil
		}
		log.Printf("Failed to unmarshal cached private package list for %s: %v", userID, err)
	}

	packages, err := a.adapter.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(packages); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, packageListTTL); err != nil {
				log.Printf("Failed to cache private package list for %s: %v", userID, err)
			}
		}
	}()

	return packages, nil
}

func (a *CachedPrivatePackageAdapter) Update(ctx context.Context, userID, id string, changes repositories.PrivatePackageUpdate) error {
	if err := a.adapter.Update(ctx, userID, id, changes); err != nil {
		return err
	}
	a.invalidateUser(userID)
	return nil
}

func (a *CachedPrivatePackageAdapter) Delete(ctx context.Context, userID, id string) error {
	if err := a.adapter.Delete(ctx, userID, id); err != nil {
		return err
	}
	a.invalidateUser(userID)
	return nil
}

func (a *CachedPrivatePackageAdapter) invalidateUser(userID string) {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, privatePackageListCacheKey(userID)); err != nil {
			log.Printf("Failed to invalidate private package list cache for %s: %v", userID, err)
		}
	}()
}
