package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
)

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *entities.ProcedurePackage) ([]string, error) {
	args := m.Called(ctx, pkg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id string) (*entities.ProcedurePackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProcedurePackage), args.Error(1)
}

func (m *MockPackageRepository) ListByUser(ctx context.Context, userID string) ([]*entities.ProcedurePackage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ProcedurePackage), args.Error(1)
}

func (m *MockPackageRepository) Update(ctx context.Context, userID, id string, changes repositories.PackageUpdate) error {
	args := m.Called(ctx, userID, id, changes)
	return args.Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockPrivatePackageRepository struct {
	mock.Mock
}

func (m *MockPrivatePackageRepository) Create(ctx context.Context, pkg *entities.PrivatePackage) ([]string, error) {
	args := m.Called(ctx, pkg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPrivatePackageRepository) GetByID(ctx context.Context, id string) (*entities.PrivatePackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PrivatePackage), args.Error(1)
}

func (m *MockPrivatePackageRepository) ListByUser(ctx context.Context, userID string) ([]*entities.PrivatePackage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PrivatePackage), args.Error(1)
}

func (m *MockPrivatePackageRepository) Update(ctx context.Context, userID, id string, changes repositories.PrivatePackageUpdate) error {
	args := m.Called(ctx, userID, id, changes)
	return args.Error(0)
}

func (m *MockPrivatePackageRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockSharedPackageRepository struct {
	mock.Mock
}

func (m *MockSharedPackageRepository) Create(ctx context.Context, share *entities.SharedPackage) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockSharedPackageRepository) GetLatestByPackageAndRecipient(ctx context.Context, packageID, toUser string, kind entities.PackageKind) (*entities.SharedPackage, error) {
	args := m.Called(ctx, packageID, toUser, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SharedPackage), args.Error(1)
}

func (m *MockSharedPackageRepository) UpdateStatus(ctx context.Context, packageID, toUser string, kind entities.PackageKind, status entities.ShareStatus) error {
	args := m.Called(ctx, packageID, toUser, kind, status)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, procedureID string) error {
	args := m.Called(ctx, userID, procedureID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, procedureID string) error {
	args := m.Called(ctx, userID, procedureID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Favorite), args.Error(1)
}

type MockOpmeRepository struct {
	mock.Mock
}

func (m *MockOpmeRepository) Create(ctx context.Context, item *entities.OpmeItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOpmeRepository) GetByID(ctx context.Context, id string) (*entities.OpmeItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OpmeItem), args.Error(1)
}

func (m *MockOpmeRepository) ListByUser(ctx context.Context, userID string) ([]*entities.OpmeItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.OpmeItem), args.Error(1)
}

func (m *MockOpmeRepository) Update(ctx context.Context, userID, id string, changes repositories.OpmeUpdate) error {
	args := m.Called(ctx, userID, id, changes)
	return args.Error(0)
}

func (m *MockOpmeRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
