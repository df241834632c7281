package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	"github.com/tabelamed/backend/internal/infrastructure/observability"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// HTTPLoader fetches the procedure catalog from a static JSON endpoint and
// memoizes the result. The catalog is immutable for the process lifetime:
// the first successful load wins, failures are never cached so the next
// call retries the fetch.
type HTTPLoader struct {
	url        string
	httpClient *http.Client

	mu     sync.RWMutex
	loaded []entities.Procedure
	group  singleflight.Group
}

func NewHTTPLoader(url string) *HTTPLoader {
	return &HTTPLoader{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

var _ repositories.CatalogRepository = (*HTTPLoader)(nil)

// Load returns the full catalog in file order. Concurrent first calls are
// collapsed into a single fetch.
func (l *HTTPLoader) Load(ctx context.Context) ([]entities.Procedure, error) {
	l.mu.RLock()
	cached := l.loaded
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	result, err, _ := l.group.Do("catalog", func() (interface{}, error) {
		l.mu.RLock()
		already := l.loaded
		l.mu.RUnlock()
		if already != nil {
			return already, nil
		}

		procedures, err := l.fetch(ctx)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.loaded = procedures
		l.mu.Unlock()
		return procedures, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]entities.Procedure), nil
}

func (l *HTTPLoader) fetch(ctx context.Context) ([]entities.Procedure, error) {
	logger := observability.LoggerFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to build catalog request", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("url", l.url).Msg("Catalog fetch failed")
		return nil, apperrors.NewUnavailableError("catalog source unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error().Int("status", resp.StatusCode).Str("url", l.url).Msg("Catalog fetch returned non-success status")
		return nil, apperrors.NewUnavailableError(
			fmt.Sprintf("catalog source returned status %d", resp.StatusCode), nil)
	}

	var procedures []entities.Procedure
	if err := json.NewDecoder(resp.Body).Decode(&procedures); err != nil {
		logger.Error().Err(err).Str("url", l.url).Msg("Catalog payload is not valid JSON")
		return nil, apperrors.NewUnavailableError("catalog payload could not be decoded", err)
	}

	logger.Info().Int("procedures", len(procedures)).Msg("Catalog loaded")
	return procedures, nil
}
