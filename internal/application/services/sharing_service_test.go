package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/entities"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

type sharingMocks struct {
	packages        *MockPackageRepository
	privatePackages *MockPrivatePackageRepository
	shares          *MockSharedPackageRepository
	notifications   *MockNotificationRepository
	users           *MockUserRepository
}

func newSharingService(t *testing.T) (*services.SharingService, *sharingMocks) {
	t.Helper()
	m := &sharingMocks{
		packages:        &MockPackageRepository{},
		privatePackages: &MockPrivatePackageRepository{},
		shares:          &MockSharedPackageRepository{},
		notifications:   &MockNotificationRepository{},
		users:           &MockUserRepository{},
	}
	service := services.NewSharingService(m.packages, m.privatePackages, m.shares, m.notifications, m.users)
	return service, m
}

func TestSharingService_SharePackage_CreatesPendingShareAndNotification(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.packages.On("GetByID", ctx, "pkg-1").
		Return(&entities.ProcedurePackage{ID: "pkg-1", UserID: "alice", Name: "Joelho básico"}, nil)
	m.users.On("GetByID", ctx, "alice").
		Return(&entities.User{ID: "alice", Name: "Dra. Alice"}, nil)
	m.shares.On("Create", ctx, mock.MatchedBy(func(share *entities.SharedPackage) bool {
		return share.PackageID == "pkg-1" &&
			share.FromUser == "alice" &&
			share.ToUser == "bob" &&
			share.Status == entities.ShareStatusPending
	})).Return(nil)
	m.notifications.On("Create", ctx, mock.MatchedBy(func(n *entities.Notification) bool {
		return n.UserID == "bob" &&
			n.Type == entities.NotificationPackageShare &&
			n.Payload.PackageID == "pkg-1" &&
			n.Payload.PackageName == "Joelho básico" &&
			n.Payload.FromUserName == "Dra. Alice"
	})).Return(nil)

	err := service.SharePackage(ctx, "alice", "pkg-1", "bob", entities.KindStandard)

	require.NoError(t, err)
	m.shares.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

func TestSharingService_SharePackage_SenderNameFallsBackToID(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.packages.On("GetByID", ctx, "pkg-1").
		Return(&entities.ProcedurePackage{ID: "pkg-1", Name: "Joelho básico"}, nil)
	m.users.On("GetByID", ctx, "alice").
		Return(nil, apperrors.NewNotFoundError("user not found"))
	m.shares.On("Create", ctx, mock.Anything).Return(nil)
	m.notifications.On("Create", ctx, mock.MatchedBy(func(n *entities.Notification) bool {
		return n.Payload.FromUserName == "alice"
	})).Return(nil)

	err := service.SharePackage(ctx, "alice", "pkg-1", "bob", entities.KindStandard)

	require.NoError(t, err)
	m.notifications.AssertExpectations(t)
}

func TestSharingService_SharePackage_MissingPackageFailsBeforeShareInsert(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.packages.On("GetByID", ctx, "pkg-gone").
		Return(nil, apperrors.NewNotFoundError("package not found"))

	err := service.SharePackage(ctx, "alice", "pkg-gone", "bob", entities.KindStandard)

	assert.True(t, apperrors.IsNotFound(err))
	m.shares.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSharingService_SharePackage_NotificationFailureLeavesSharePending(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.packages.On("GetByID", ctx, "pkg-1").
		Return(&entities.ProcedurePackage{ID: "pkg-1", Name: "Joelho básico"}, nil)
	m.users.On("GetByID", ctx, "alice").
		Return(&entities.User{ID: "alice", Name: "Alice"}, nil)
	m.shares.On("Create", ctx, mock.Anything).Return(nil)
	m.notifications.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

	err := service.SharePackage(ctx, "alice", "pkg-1", "bob", entities.KindStandard)

	assert.Error(t, err)
	m.shares.AssertExpectations(t)
}

func TestSharingService_SharePackage_Validation(t *testing.T) {
	ctx := context.Background()
	service, _ := newSharingService(t)

	assert.Error(t, service.SharePackage(ctx, "alice", "", "bob", entities.KindStandard))
	assert.Error(t, service.SharePackage(ctx, "alice", "pkg-1", "", entities.KindStandard))
	assert.Error(t, service.SharePackage(ctx, "alice", "pkg-1", "bob", entities.PackageKind("outro")))
}

func TestSharingService_SharePackage_AnonymousIsNoOp(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	err := service.SharePackage(ctx, "", "pkg-1", "bob", entities.KindStandard)

	require.NoError(t, err)
	m.shares.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func acceptPayload(packageID string, kind entities.PackageKind) entities.SharePayload {
	return entities.SharePayload{
		PackageID:   packageID,
		PackageName: "Joelho básico",
		PackageType: kind,
		FromUserID:  "alice",
	}
}

func TestSharingService_AcceptShare_CopiesPackageForRecipient(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	source := &entities.ProcedurePackage{
		ID:           "pkg-1",
		UserID:       "alice",
		Name:         "Joelho básico",
		Description:  "pacote de rotina",
		ProcedureIDs: []string{"proc-1", "proc-2"},
	}

	m.shares.On("GetLatestByPackageAndRecipient", ctx, "pkg-1", "bob", entities.KindStandard).
		Return(&entities.SharedPackage{
			PackageID: "pkg-1",
			FromUser:  "alice",
			ToUser:    "bob",
			Status:    entities.ShareStatusPending,
		}, nil)
	m.packages.On("GetByID", ctx, "pkg-1").Return(source, nil)
	m.packages.On("Create", ctx, mock.MatchedBy(func(pkg *entities.ProcedurePackage) bool {
		return pkg.UserID == "bob" &&
			pkg.ID != "pkg-1" &&
			pkg.Name == "Joelho básico" &&
			len(pkg.ProcedureIDs) == 2
	})).Return([]string{}, nil)
	m.shares.On("UpdateStatus", ctx, "pkg-1", "bob", entities.KindStandard, entities.ShareStatusAccepted).
		Return(nil)
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.AcceptShare(ctx, "bob", "notif-1", acceptPayload("pkg-1", entities.KindStandard))

	require.NoError(t, err)
	m.packages.AssertExpectations(t)
	m.shares.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

func TestSharingService_AcceptShare_PrivatePackageCopiesFeesAndOpmes(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	source := &entities.PrivatePackage{
		ID:               "priv-1",
		UserID:           "alice",
		Name:             "Particular joelho",
		ProcedureIDs:     []string{"proc-1"},
		OpmeIDs:          []string{"opme-1", "opme-2"},
		SurgeonValue:     5000,
		AnesthetistValue: 1500,
		AssistantValue:   800,
	}

	m.shares.On("GetLatestByPackageAndRecipient", ctx, "priv-1", "bob", entities.KindPrivate).
		Return(nil, apperrors.NewNotFoundError("no share record"))
	m.privatePackages.On("GetByID", ctx, "priv-1").Return(source, nil)
	m.privatePackages.On("Create", ctx, mock.MatchedBy(func(pkg *entities.PrivatePackage) bool {
		return pkg.UserID == "bob" &&
			pkg.SurgeonValue == 5000 &&
			pkg.AnesthetistValue == 1500 &&
			pkg.AssistantValue == 800 &&
			len(pkg.OpmeIDs) == 2
	})).Return([]string{}, nil)
	m.shares.On("UpdateStatus", ctx, "priv-1", "bob", entities.KindPrivate, entities.ShareStatusAccepted).
		Return(nil)
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.AcceptShare(ctx, "bob", "notif-1", acceptPayload("priv-1", entities.KindPrivate))

	require.NoError(t, err)
	m.privatePackages.AssertExpectations(t)
}

func TestSharingService_AcceptShare_AlreadyAcceptedOnlyClearsNotification(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.shares.On("GetLatestByPackageAndRecipient", ctx, "pkg-1", "bob", entities.KindStandard).
		Return(&entities.SharedPackage{
			PackageID: "pkg-1",
			ToUser:    "bob",
			Status:    entities.ShareStatusAccepted,
		}, nil)
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.AcceptShare(ctx, "bob", "notif-1", acceptPayload("pkg-1", entities.KindStandard))

	require.NoError(t, err)
	m.packages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.shares.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.notifications.AssertExpectations(t)
}

// A package can be shared with several recipients. Each accept must act on
// the row addressed to the accepting user, even when a newer share of the
// same package went to someone else.
func TestSharingService_AcceptShare_MultipleRecipientsStayIndependent(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.shares.On("GetLatestByPackageAndRecipient", ctx, "pkg-1", "bob", entities.KindStandard).
		Return(&entities.SharedPackage{
			PackageID: "pkg-1",
			FromUser:  "alice",
			ToUser:    "bob",
			Status:    entities.ShareStatusPending,
		}, nil)
	m.packages.On("GetByID", ctx, "pkg-1").
		Return(&entities.ProcedurePackage{ID: "pkg-1", Name: "Joelho básico"}, nil)
	m.packages.On("Create", ctx, mock.MatchedBy(func(pkg *entities.ProcedurePackage) bool {
		return pkg.UserID == "bob"
	})).Return([]string{}, nil)
	m.shares.On("UpdateStatus", ctx, "pkg-1", "bob", entities.KindStandard, entities.ShareStatusAccepted).
		Return(nil)
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.AcceptShare(ctx, "bob", "notif-1", acceptPayload("pkg-1", entities.KindStandard))

	require.NoError(t, err)
	m.shares.AssertNotCalled(t, "GetLatestByPackageAndRecipient", ctx, "pkg-1", "carol", entities.KindStandard)
	m.packages.AssertExpectations(t)
	m.shares.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

func TestSharingService_AcceptShare_SourcePackageGoneKeepsNotification(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.shares.On("GetLatestByPackageAndRecipient", ctx, "pkg-gone", "bob", entities.KindStandard).
		Return(&entities.SharedPackage{
			PackageID: "pkg-gone",
			ToUser:    "bob",
			Status:    entities.ShareStatusPending,
		}, nil)
	m.packages.On("GetByID", ctx, "pkg-gone").
		Return(nil, apperrors.NewNotFoundError("package not found"))

	err := service.AcceptShare(ctx, "bob", "notif-1", acceptPayload("pkg-gone", entities.KindStandard))

	assert.True(t, apperrors.IsNotFound(err))
	m.notifications.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestSharingService_AcceptShare_StatusUpdateFailureStillClearsNotification(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.shares.On("GetLatestByPackageAndRecipient", ctx, "pkg-1", "bob", entities.KindStandard).
		Return(nil, apperrors.NewNotFoundError("no share record"))
	m.packages.On("GetByID", ctx, "pkg-1").
		Return(&entities.ProcedurePackage{ID: "pkg-1", Name: "Joelho básico"}, nil)
	m.packages.On("Create", ctx, mock.Anything).Return([]string{}, nil)
	m.shares.On("UpdateStatus", ctx, "pkg-1", "bob", entities.KindStandard, entities.ShareStatusAccepted).
		Return(errors.New("update failed"))
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.AcceptShare(ctx, "bob", "notif-1", acceptPayload("pkg-1", entities.KindStandard))

	require.NoError(t, err)
	m.notifications.AssertExpectations(t)
}

func TestSharingService_AcceptShare_StringEncodedPayload(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	payload, err := json.Marshal(acceptPayload("pkg-1", entities.KindStandard))
	require.NoError(t, err)

	m.shares.On("GetLatestByPackageAndRecipient", ctx, "pkg-1", "bob", entities.KindStandard).
		Return(nil, apperrors.NewNotFoundError("no share record"))
	m.packages.On("GetByID", ctx, "pkg-1").
		Return(&entities.ProcedurePackage{ID: "pkg-1", Name: "Joelho básico"}, nil)
	m.packages.On("Create", ctx, mock.Anything).Return([]string{}, nil)
	m.shares.On("UpdateStatus", ctx, "pkg-1", "bob", entities.KindStandard, entities.ShareStatusAccepted).
		Return(nil)
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err = service.AcceptShare(ctx, "bob", "notif-1", string(payload))

	require.NoError(t, err)
	m.packages.AssertExpectations(t)
}

func TestSharingService_AcceptShare_KindDefaultsToStandard(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	payload := entities.SharePayload{PackageID: "pkg-1"}

	m.shares.On("GetLatestByPackageAndRecipient", ctx, "pkg-1", "bob", entities.KindStandard).
		Return(nil, apperrors.NewNotFoundError("no share record"))
	m.packages.On("GetByID", ctx, "pkg-1").
		Return(&entities.ProcedurePackage{ID: "pkg-1", Name: "Joelho básico"}, nil)
	m.packages.On("Create", ctx, mock.Anything).Return([]string{}, nil)
	m.shares.On("UpdateStatus", ctx, "pkg-1", "bob", entities.KindStandard, entities.ShareStatusAccepted).
		Return(nil)
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.AcceptShare(ctx, "bob", "notif-1", payload)

	require.NoError(t, err)
	m.packages.AssertExpectations(t)
}

func TestSharingService_AcceptShare_MissingPackageIDIsValidationError(t *testing.T) {
	ctx := context.Background()
	service, _ := newSharingService(t)

	err := service.AcceptShare(ctx, "bob", "notif-1", entities.SharePayload{})

	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestSharingService_AcceptShare_AnonymousIsNoOp(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	err := service.AcceptShare(ctx, "", "notif-1", acceptPayload("pkg-1", entities.KindStandard))

	require.NoError(t, err)
	m.packages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSharingService_RejectShare_MarksRejectedAndDeletesNotification(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.shares.On("UpdateStatus", ctx, "pkg-1", "bob", entities.KindStandard, entities.ShareStatusRejected).
		Return(nil)
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.RejectShare(ctx, "bob", "notif-1", acceptPayload("pkg-1", entities.KindStandard))

	require.NoError(t, err)
	m.shares.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

func TestSharingService_RejectShare_StatusFailureStillDeletesNotification(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.shares.On("UpdateStatus", ctx, "pkg-1", "bob", entities.KindStandard, entities.ShareStatusRejected).
		Return(errors.New("update failed"))
	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.RejectShare(ctx, "bob", "notif-1", acceptPayload("pkg-1", entities.KindStandard))

	require.NoError(t, err)
	m.notifications.AssertExpectations(t)
}

func TestSharingService_RejectShare_UnparseablePayloadStillDeletesNotification(t *testing.T) {
	ctx := context.Background()
	service, m := newSharingService(t)

	m.notifications.On("Delete", ctx, "bob", "notif-1").Return(nil)

	err := service.RejectShare(ctx, "bob", "notif-1", "not json at all")

	require.NoError(t, err)
	m.shares.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.notifications.AssertExpectations(t)
}
