package repositories

import (
	"context"

	"github.com/tabelamed/backend/internal/domain/entities"
)

// CatalogRepository defines the interface for loading the static procedure
// catalog. The dataset is fetched at most once per process lifetime;
// concurrent callers before the first load share one in-flight request.
type CatalogRepository interface {
	// Load returns the full catalog, fetching it on first use
	Load(ctx context.Context) ([]entities.Procedure, error)
}
