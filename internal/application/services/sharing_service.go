package services

import (
	"context"
	"fmt"

	"github.com/tabelamed/backend/internal/domain/entities"
	"github.com/tabelamed/backend/internal/domain/repositories"
	"github.com/tabelamed/backend/internal/infrastructure/observability"
	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// SharingService implements the package sharing protocol:
// propose (share), notify, accept or reject, and on accept materialize an
// independent copy owned by the recipient.
//
// Share states move pending to accepted or rejected and never revert.
type SharingService struct {
	packages        repositories.PackageRepository
	privatePackages repositories.PrivatePackageRepository
	shares          repositories.SharedPackageRepository
	notifications   repositories.NotificationRepository
	users           repositories.UserRepository
}

// NewSharingService creates a new sharing service
func NewSharingService(
	packages repositories.PackageRepository,
	privatePackages repositories.PrivatePackageRepository,
	shares repositories.SharedPackageRepository,
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
) *SharingService {
	return &SharingService{
		packages:        packages,
		privatePackages: privatePackages,
		shares:          shares,
		notifications:   notifications,
		users:           users,
	}
}

// SharePackage inserts a pending share record, then a notification for the
// recipient. Fail-fast: if the share insert fails the notification is never
// attempted. A failed notification leaves the share record in pending so
// the sender can retry.
func (s *SharingService) SharePackage(ctx context.Context, fromUserID, packageID, toUserID string, kind entities.PackageKind) error {
	if fromUserID == "" {
		return nil
	}
	if packageID == "" {
		return apperrors.NewValidationError("package id is required")
	}
	if toUserID == "" {
		return apperrors.NewValidationError("recipient user id is required")
	}
	if kind != entities.KindStandard && kind != entities.KindPrivate {
		return apperrors.NewValidationError(fmt.Sprintf("unknown package kind %q", kind))
	}

	packageName, err := s.packageName(ctx, packageID, kind)
	if err != nil {
		return err
	}

	fromUserName := fromUserID
	if sender, err := s.users.GetByID(ctx, fromUserID); err == nil {
		fromUserName = sender.Name
	}

	share := &entities.SharedPackage{
		PackageID:   packageID,
		PackageType: kind,
		FromUser:    fromUserID,
		ToUser:      toUserID,
		Status:      entities.ShareStatusPending,
	}
	if err := s.shares.Create(ctx, share); err != nil {
		return err
	}

	notification := &entities.Notification{
		UserID: toUserID,
		Type:   entities.NotificationPackageShare,
		Payload: entities.SharePayload{
			PackageID:    packageID,
			PackageName:  packageName,
			PackageType:  kind,
			FromUserID:   fromUserID,
			FromUserName: fromUserName,
		},
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("package_id", packageID).
			Str("to_user", toUserID).
			Msg("Share record created but notification failed")
		return err
	}

	return nil
}

func (s *SharingService) packageName(ctx context.Context, packageID string, kind entities.PackageKind) (string, error) {
	if kind == entities.KindPrivate {
		pkg, err := s.privatePackages.GetByID(ctx, packageID)
		if err != nil {
			return "", err
		}
		return pkg.Name, nil
	}
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return "", err
	}
	return pkg.Name, nil
}

// AcceptShare materializes an independent copy of the shared package for
// the accepting user, marks the share accepted and deletes the
// notification. Payloads may arrive structured or JSON-string-encoded.
//
// Accept is idempotent: when the share record already reads accepted, the
// call only clears the notification. If the source package no longer
// exists, nothing is copied and the notification is left intact.
func (s *SharingService) AcceptShare(ctx context.Context, userID, notificationID string, payload any) error {
	if userID == "" {
		return nil
	}

	parsed, err := entities.ParseSharePayload(payload)
	if err != nil {
		return err
	}
	if parsed.PackageID == "" {
		return apperrors.NewValidationError("share payload has no package id")
	}
	kind := parsed.PackageType
	if kind == "" {
		kind = entities.KindStandard
	}

	// The lookup is scoped to this recipient so a later share of the same
	// package to someone else never shadows this user's own record. A
	// missing record means the share predates the record table; the
	// payload is trusted and the copy proceeds.
	share, err := s.shares.GetLatestByPackageAndRecipient(ctx, parsed.PackageID, userID, kind)
	if err == nil {
		if share.Status == entities.ShareStatusAccepted {
			return s.clearNotification(ctx, userID, notificationID)
		}
	} else if !apperrors.IsNotFound(err) {
		return err
	}

	if err := s.copyPackage(ctx, userID, parsed.PackageID, kind); err != nil {
		return err
	}

	if err := s.shares.UpdateStatus(ctx, parsed.PackageID, userID, kind, entities.ShareStatusAccepted); err != nil {
		// The copy already exists; a failed status update is observable
		// via the share record remaining pending.
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("package_id", parsed.PackageID).
			Msg("Accepted share but status update failed")
	}

	return s.clearNotification(ctx, userID, notificationID)
}

func (s *SharingService) copyPackage(ctx context.Context, userID, packageID string, kind entities.PackageKind) error {
	if kind == entities.KindPrivate {
		source, err := s.privatePackages.GetByID(ctx, packageID)
		if err != nil {
			return err
		}
		copied := &entities.PrivatePackage{
			UserID:           userID,
			Name:             source.Name,
			Description:      source.Description,
			ProcedureIDs:     source.ProcedureIDs,
			OpmeIDs:          source.OpmeIDs,
			SurgeonValue:     source.SurgeonValue,
			AnesthetistValue: source.AnesthetistValue,
			AssistantValue:   source.AssistantValue,
		}
		warnings, err := s.privatePackages.Create(ctx, copied)
		if err != nil {
			return err
		}
		s.logCopyWarnings(ctx, packageID, warnings)
		return nil
	}

	source, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return err
	}
	copied := &entities.ProcedurePackage{
		UserID:       userID,
		Name:         source.Name,
		Description:  source.Description,
		ProcedureIDs: source.ProcedureIDs,
	}
	warnings, err := s.packages.Create(ctx, copied)
	if err != nil {
		return err
	}
	s.logCopyWarnings(ctx, packageID, warnings)
	return nil
}

func (s *SharingService) logCopyWarnings(ctx context.Context, packageID string, warnings []string) {
	for _, warning := range warnings {
		observability.LoggerFromContext(ctx).Warn().
			Str("source_package_id", packageID).
			Str("warning", warning).
			Msg("Share copy created with incomplete links")
	}
}

func (s *SharingService) clearNotification(ctx context.Context, userID, notificationID string) error {
	if notificationID == "" {
		return nil
	}
	err := s.notifications.Delete(ctx, userID, notificationID)
	if err != nil && apperrors.IsNotFound(err) {
		return nil
	}
	return err
}

// RejectShare marks the share rejected and deletes the notification. The
// status update is best-effort; the notification is removed regardless.
func (s *SharingService) RejectShare(ctx context.Context, userID, notificationID string, payload any) error {
	if userID == "" {
		return nil
	}

	if parsed, err := entities.ParseSharePayload(payload); err == nil && parsed.PackageID != "" {
		kind := parsed.PackageType
		if kind == "" {
			kind = entities.KindStandard
		}
		if err := s.shares.UpdateStatus(ctx, parsed.PackageID, userID, kind, entities.ShareStatusRejected); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("package_id", parsed.PackageID).
				Msg("Share rejection status update failed")
		}
	}

	return s.clearNotification(ctx, userID, notificationID)
}
