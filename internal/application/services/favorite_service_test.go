package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/entities"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

func newFavoriteService(repo *MockFavoriteRepository) *services.FavoriteService {
	catalog := services.NewCatalogService(&staticCatalog{procedures: testProcedures()})
	return services.NewFavoriteService(repo, catalog)
}

func TestFavoriteService_Add(t *testing.T) {
	ctx := context.Background()
	repo := &MockFavoriteRepository{}
	service := newFavoriteService(repo)

	repo.On("Add", ctx, "alice", "proc-1").Return(nil)

	require.NoError(t, service.Add(ctx, "alice", "proc-1"))
	repo.AssertExpectations(t)
}

func TestFavoriteService_Add_UnknownProcedureIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &MockFavoriteRepository{}
	service := newFavoriteService(repo)

	err := service.Add(ctx, "alice", "proc-99")

	assert.True(t, apperrors.IsNotFound(err))
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriteService_List_DropsStaleIDs(t *testing.T) {
	ctx := context.Background()
	repo := &MockFavoriteRepository{}
	service := newFavoriteService(repo)

	repo.On("ListByUser", ctx, "alice").Return([]*entities.Favorite{
		{UserID: "alice", ProcedureID: "proc-3"},
		{UserID: "alice", ProcedureID: "proc-removido"},
		{UserID: "alice", ProcedureID: "proc-1"},
	}, nil)

	procedures, err := service.List(ctx, "alice")

	require.NoError(t, err)
	require.Len(t, procedures, 2)
	assert.Equal(t, "proc-3", procedures[0].ID)
	assert.Equal(t, "proc-1", procedures[1].ID)
}

func TestFavoriteService_AnonymousCallsAreNoOps(t *testing.T) {
	ctx := context.Background()
	repo := &MockFavoriteRepository{}
	service := newFavoriteService(repo)

	require.NoError(t, service.Add(ctx, "", "proc-1"))
	require.NoError(t, service.Remove(ctx, "", "proc-1"))

	procedures, err := service.List(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, procedures)
	assert.Empty(t, procedures)

	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestFavoriteService_Remove_PropagatesNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &MockFavoriteRepository{}
	service := newFavoriteService(repo)

	repo.On("Remove", ctx, "alice", "proc-1").
		Return(apperrors.NewNotFoundError("favorite not found"))

	err := service.Remove(ctx, "alice", "proc-1")

	assert.True(t, apperrors.IsNotFound(err))
}
