package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	"github.com/tabelamed/backend/internal/infrastructure/observability"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// SearchFilter narrows a catalog search. Empty fields do not filter.
type SearchFilter struct {
	Region entities.Region
	Type   entities.ProcedureType
}

// CatalogService exposes the read-only procedure catalog: substring search
// with categorical filters plus by-id lookup. Results always preserve
// catalog order.
type CatalogService struct {
	catalog repositories.CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog repositories.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Search returns the procedures whose searchable fields contain the query
// as a case-insensitive substring, narrowed by the filter fields with AND
// semantics. An empty query matches everything.
func (s *CatalogService) Search(ctx context.Context, query string, filter SearchFilter) ([]entities.Procedure, error) {
	procedures, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	results := []entities.Procedure{}
	for _, proc := range procedures {
		if needle != "" && !matchesQuery(&proc, needle) {
			continue
		}
		if filter.Region != "" && proc.Region != filter.Region {
			continue
		}
		if filter.Type != "" && proc.Type != filter.Type {
			continue
		}
		results = append(results, proc)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Catalog search")

	return results, nil
}

// matchesQuery reports whether the lowered query is a substring of any
// searchable field: name, the three codes, or any keyword
func matchesQuery(proc *entities.Procedure, needle string) bool {
	if strings.Contains(strings.ToLower(proc.Name), needle) {
		return true
	}
	if proc.Codes.TUSS != "" && strings.Contains(strings.ToLower(proc.Codes.TUSS), needle) {
		return true
	}
	if proc.Codes.CBHPM != "" && strings.Contains(strings.ToLower(proc.Codes.CBHPM), needle) {
		return true
	}
	if proc.Codes.SUS != "" && strings.Contains(strings.ToLower(proc.Codes.SUS), needle) {
		return true
	}
	for _, keyword := range proc.Keywords {
		if strings.Contains(keyword, needle) {
			return true
		}
	}
	return false
}

// GetByID retrieves a single procedure by its catalog id
func (s *CatalogService) GetByID(ctx context.Context, id string) (*entities.Procedure, error) {
	procedures, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range procedures {
		if procedures[i].ID == id {
			return &procedures[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("procedure with id %s not found", id))
}

// GetByIDs resolves a list of catalog ids, silently dropping ids that no
// longer exist. Order follows the input list.
func (s *CatalogService) GetByIDs(ctx context.Context, ids []string) ([]entities.Procedure, error) {
	procedures, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Procedure, len(procedures))
	for i := range procedures {
		byID[procedures[i].ID] = &procedures[i]
	}

	resolved := []entities.Procedure{}
	for _, id := range ids {
		if proc, ok := byID[id]; ok {
			resolved = append(resolved, *proc)
		}
	}
	return resolved, nil
}
