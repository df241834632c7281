package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabelamed/backend/internal/api/handlers"
	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/entities"
)

func newCatalogHandler() *handlers.CatalogHandler {
	catalog := &staticCatalog{procedures: []entities.Procedure{
		{
			ID:       "proc-1",
			Name:     "Artroscopia de joelho",
			Codes:    entities.ProcedureCodes{TUSS: "30912016"},
			Region:   entities.RegionJoelho,
			Type:     entities.TypeCirurgico,
			Keywords: []string{"artroscopia", "joelho"},
		},
		{
			ID:       "proc-2",
			Name:     "Radiografia de joelho",
			Region:   entities.RegionJoelho,
			Type:     entities.TypeDiagnostico,
			Keywords: []string{"radiografia", "joelho"},
		},
	}}
	return handlers.NewCatalogHandler(services.NewCatalogService(catalog))
}

func TestCatalogHandler_SearchProcedures_ReturnsContract(t *testing.T) {
	handler := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/procedures?q=joelho", nil)
	w := httptest.NewRecorder()
	handler.SearchProcedures(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response struct {
		Procedures []entities.Procedure `json:"procedures"`
		Count      int                  `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Procedures, 2)
	assert.Equal(t, 2, response.Count)
}

func TestCatalogHandler_SearchProcedures_AppliesFilters(t *testing.T) {
	handler := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/procedures?q=joelho&type=cirurgico&region=joelho", nil)
	w := httptest.NewRecorder()
	handler.SearchProcedures(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Procedures []entities.Procedure `json:"procedures"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Procedures, 1)
	assert.Equal(t, "proc-1", response.Procedures[0].ID)
}

func TestCatalogHandler_SearchProcedures_NoMatchReturnsEmptyArray(t *testing.T) {
	handler := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/procedures?q=inexistente", nil)
	w := httptest.NewRecorder()
	handler.SearchProcedures(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"procedures":[]`)
}

func TestCatalogHandler_GetProcedure(t *testing.T) {
	handler := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/procedures/proc-1", nil)
	req.SetPathValue("id", "proc-1")
	w := httptest.NewRecorder()
	handler.GetProcedure(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var procedure entities.Procedure
	require.NoError(t, json.NewDecoder(w.Body).Decode(&procedure))
	assert.Equal(t, "Artroscopia de joelho", procedure.Name)
}

func TestCatalogHandler_GetProcedure_NotFound(t *testing.T) {
	handler := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/procedures/proc-99", nil)
	req.SetPathValue("id", "proc-99")
	w := httptest.NewRecorder()
	handler.GetProcedure(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
