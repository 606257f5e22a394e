package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"subgate/internal/models/db_models"
	"subgate/internal/repositories"
	"subgate/pkg/utils"
)

// ResetReason records which entry point asked for a device-binding reset.
// All three run through the same operation with the same postcondition so the
// block, device-id and change-request fields can never drift apart.
type ResetReason string

const (
	ResetByAdmin          ResetReason = "admin_action"
	ResetByChangeApproval ResetReason = "change_approval"
	ResetByPenaltyPayment ResetReason = "penalty_payment"
)

type DeviceService interface {
	// EvaluateBinding applies the single-device policy to an authentication
	// attempt and mutates the user's binding fields in memory; the caller
	// persists after the whole auth decision. A mismatch never rewrites the
	// stored device id and never sets the persisted block flag by itself.
	EvaluateBinding(user *db_models.User, presentedDeviceID string, now int64) error
	// ConfirmMismatchBlock re-verifies a claimed mismatch and only then
	// persists isBlocked. A matching device id is rejected so a client cannot
	// block its own account by mistake.
	ConfirmMismatchBlock(ctx context.Context, email, presentedDeviceID string) error
	RequestDeviceChange(ctx context.Context, userID uuid.UUID) error
	ResetDeviceBinding(ctx context.Context, userID uuid.UUID, reason ResetReason) error
}

type deviceService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

func NewDeviceService(userRepo repositories.UserRepository, logger *zap.Logger) DeviceService {
	return &deviceService{userRepo: userRepo, logger: logger}
}

func (d *deviceService) EvaluateBinding(user *db_models.User, presentedDeviceID string, now int64) error {
	if user.DeviceID == nil || *user.DeviceID == "" {
		if presentedDeviceID == "" {
			return utils.ErrDeviceIDRequired
		}
		// First login after creation or after a reset: bind.
		user.DeviceID = &presentedDeviceID
		user.LastDeviceLogin = &now
		user.LastActivity = &now
		return nil
	}

	if presentedDeviceID == "" || *user.DeviceID != presentedDeviceID {
		return utils.ErrDeviceMismatch
	}

	user.LastDeviceLogin = &now
	user.LastActivity = &now
	return nil
}

func (d *deviceService) ConfirmMismatchBlock(ctx context.Context, email, presentedDeviceID string) error {
	user, err := d.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrUserNotFound
	}

	if user.DeviceID != nil && *user.DeviceID == presentedDeviceID {
		return utils.ErrNoMismatchDetected
	}

	user.IsBlocked = true
	if err := d.userRepo.Update(ctx, user); err != nil {
		return utils.ErrDatabaseError
	}

	d.logger.Info("user blocked for device mismatch",
		zap.String("user_id", user.ID.String()))
	return nil
}

func (d *deviceService) RequestDeviceChange(ctx context.Context, userID uuid.UUID) error {
	user, err := d.userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrUserNotFound
	}
	if user.DeviceChangeRequested {
		return utils.ErrRequestAlreadyPending
	}

	now := utils.NowUnixSeconds()
	user.DeviceChangeRequested = true
	user.DeviceChangeRequestedAt = &now
	// The account stays blocked until an admin approves or the user pays the
	// penalty.
	user.IsBlocked = true

	if err := d.userRepo.Update(ctx, user); err != nil {
		return utils.ErrDatabaseError
	}

	d.logger.Info("device change requested", zap.String("user_id", userID.String()))
	return nil
}

func (d *deviceService) ResetDeviceBinding(ctx context.Context, userID uuid.UUID, reason ResetReason) error {
	user, err := d.userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrUserNotFound
	}

	// Postcondition: unbound, unblocked, no pending request. Idempotent.
	user.DeviceID = nil
	user.LastDeviceLogin = nil
	user.DeviceChangeRequested = false
	user.DeviceChangeRequestedAt = nil
	user.IsBlocked = false

	if err := d.userRepo.Update(ctx, user); err != nil {
		return utils.ErrDatabaseError
	}

	d.logger.Info("device binding reset",
		zap.String("user_id", userID.String()),
		zap.String("reason", string(reason)))
	return nil
}
