package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/entities"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// staticCatalog serves a fixed procedure list without any I/O
type staticCatalog struct {
	procedures []entities.Procedure
	err        error
}

func (c *staticCatalog) Load(ctx context.Context) ([]entities.Procedure, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.procedures, nil
}

func testProcedures() []entities.Procedure {
	return []entities.Procedure{
		{
			ID:       "proc-1",
			Name:     "Artroscopia de joelho",
			Codes:    entities.ProcedureCodes{TUSS: "30912016", CBHPM: "3.09.12.01-6"},
			Region:   entities.RegionJoelho,
			Type:     entities.TypeCirurgico,
			Keywords: []string{"artroscopia", "joelho", "30912016"},
		},
		{
			ID:       "proc-2",
			Name:     "Radiografia de joelho",
			Codes:    entities.ProcedureCodes{TUSS: "40801012"},
			Region:   entities.RegionJoelho,
			Type:     entities.TypeDiagnostico,
			Keywords: []string{"radiografia", "joelho", "40801012"},
		},
		{
			ID:       "proc-3",
			Name:     "Artroplastia total de quadril",
			Codes:    entities.ProcedureCodes{TUSS: "30715016", SUS: "0408050063"},
			Region:   entities.RegionQuadril,
			Type:     entities.TypeCirurgico,
			Keywords: []string{"artroplastia", "total", "quadril", "30715016", "0408050063"},
		},
	}
}

func TestCatalogService_Search_EmptyQueryReturnsAll(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	results, err := service.Search(context.Background(), "", services.SearchFilter{})

	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestCatalogService_Search_NameSubstringCaseInsensitive(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	results, err := service.Search(context.Background(), "ARTRO", services.SearchFilter{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "proc-1", results[0].ID)
	assert.Equal(t, "proc-3", results[1].ID)
}

func TestCatalogService_Search_MatchesCodeSubstring(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	results, err := service.Search(context.Background(), "309120", services.SearchFilter{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "proc-1", results[0].ID)
}

// Code matching is case insensitive like the name and keyword fields, so
// source sheets that carry letters in a code still match lowered queries.
func TestCatalogService_Search_MatchesCodeCaseInsensitive(t *testing.T) {
	procedures := testProcedures()
	procedures[1].Codes.CBHPM = "RX.08.01-2"
	service := services.NewCatalogService(&staticCatalog{procedures: procedures})

	results, err := service.Search(context.Background(), "rx.08", services.SearchFilter{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "proc-2", results[0].ID)
}

func TestCatalogService_Search_MatchesKeyword(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	results, err := service.Search(context.Background(), "quadril", services.SearchFilter{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "proc-3", results[0].ID)
}

func TestCatalogService_Search_FiltersAreConjunctive(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	results, err := service.Search(context.Background(), "joelho", services.SearchFilter{
		Region: entities.RegionJoelho,
		Type:   entities.TypeCirurgico,
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "proc-1", results[0].ID)
}

func TestCatalogService_Search_FilterWithoutQuery(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	results, err := service.Search(context.Background(), "", services.SearchFilter{
		Type: entities.TypeCirurgico,
	})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "proc-1", results[0].ID)
	assert.Equal(t, "proc-3", results[1].ID)
}

func TestCatalogService_Search_TrimsQueryWhitespace(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	results, err := service.Search(context.Background(), "  radiografia  ", services.SearchFilter{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "proc-2", results[0].ID)
}

func TestCatalogService_Search_NoMatchReturnsEmptySlice(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	results, err := service.Search(context.Background(), "inexistente", services.SearchFilter{})

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestCatalogService_Search_PropagatesLoadError(t *testing.T) {
	loadErr := apperrors.NewUnavailableError("catalog source unreachable", nil)
	service := services.NewCatalogService(&staticCatalog{err: loadErr})

	_, err := service.Search(context.Background(), "joelho", services.SearchFilter{})

	assert.Equal(t, apperrors.ErrorTypeUnavailable, apperrors.TypeOf(err))
}

func TestCatalogService_GetByID(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	proc, err := service.GetByID(context.Background(), "proc-2")

	require.NoError(t, err)
	assert.Equal(t, "Radiografia de joelho", proc.Name)
}

func TestCatalogService_GetByID_NotFound(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	_, err := service.GetByID(context.Background(), "proc-99")

	assert.True(t, apperrors.IsNotFound(err))
}

func TestCatalogService_GetByIDs_DropsMissingPreservesOrder(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	resolved, err := service.GetByIDs(context.Background(), []string{"proc-3", "proc-99", "proc-1"})

	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "proc-3", resolved[0].ID)
	assert.Equal(t, "proc-1", resolved[1].ID)
}

func TestCatalogService_GetByIDs_EmptyInput(t *testing.T) {
	service := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})

	resolved, err := service.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, resolved)
	assert.Empty(t, resolved)
}
