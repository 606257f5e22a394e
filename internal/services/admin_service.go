package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"subgate/internal/models/db_models"
	"subgate/internal/models/response_models"
	"subgate/internal/repositories"
	"subgate/pkg/presence"
	"subgate/pkg/utils"
)

type AdminService interface {
	SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) error
	ResetDevice(ctx context.Context, userID uuid.UUID) error
	ApproveDeviceChange(ctx context.Context, userID uuid.UUID) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// DeviceConflicts reports device ids shared between accounts and accounts
	// with a pending device change request.
	DeviceConflicts(ctx context.Context) ([]response_models.DeviceConflict, error)
	UserAnalytics(ctx context.Context) (*response_models.UserAnalytics, error)
}

type adminService struct {
	userRepo      repositories.UserRepository
	deviceService DeviceService
	tracker       presence.Tracker
	logger        *zap.Logger
}

func NewAdminService(
	userRepo repositories.UserRepository,
	deviceService DeviceService,
	tracker presence.Tracker,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		userRepo:      userRepo,
		deviceService: deviceService,
		tracker:       tracker,
		logger:        logger,
	}
}

func (a *adminService) SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) error {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrUserNotFound
	}

	user.IsBlocked = blocked
	if err := a.userRepo.Update(ctx, user); err != nil {
		return utils.ErrDatabaseError
	}

	a.logger.Info("user block state changed",
		zap.String("user_id", userID.String()),
		zap.Bool("blocked", blocked))
	return nil
}

func (a *adminService) ResetDevice(ctx context.Context, userID uuid.UUID) error {
	return a.deviceService.ResetDeviceBinding(ctx, userID, ResetByAdmin)
}

func (a *adminService) ApproveDeviceChange(ctx context.Context, userID uuid.UUID) error {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrUserNotFound
	}
	if !user.DeviceChangeRequested {
		return utils.ErrNoMismatchDetected
	}
	return a.deviceService.ResetDeviceBinding(ctx, userID, ResetByChangeApproval)
}

func (a *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrUserNotFound
	}
	if err := a.userRepo.Delete(ctx, userID); err != nil {
		return utils.ErrDatabaseError
	}
	a.logger.Info("user deleted", zap.String("user_id", userID.String()))
	return nil
}

func toConflictedUser(u *db_models.User) response_models.ConflictedUser {
	return response_models.ConflictedUser{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		Mobile:          u.Mobile,
		DeviceID:        u.DeviceID,
		LastDeviceLogin: u.LastDeviceLogin,
		IsBlocked:       u.IsBlocked,
	}
}

func (a *adminService) DeviceConflicts(ctx context.Context) ([]response_models.DeviceConflict, error) {
	withDevice, err := a.userRepo.FindWithDevice(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	byDevice := make(map[string][]response_models.ConflictedUser)
	order := make([]string, 0)
	for i := range withDevice {
		u := &withDevice[i]
		id := *u.DeviceID
		if _, seen := byDevice[id]; !seen {
			order = append(order, id)
		}
		byDevice[id] = append(byDevice[id], toConflictedUser(u))
	}

	conflicts := make([]response_models.DeviceConflict, 0)
	for _, id := range order {
		users := byDevice[id]
		if len(users) < 2 {
			continue
		}
		conflicts = append(conflicts, response_models.DeviceConflict{
			DeviceID: id,
			Kind:     "shared_device",
			Users:    users,
		})
	}

	requested, err := a.userRepo.FindChangeRequested(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	for i := range requested {
		u := &requested[i]
		conflicts = append(conflicts, response_models.DeviceConflict{
			Kind:        "change_request",
			Users:       []response_models.ConflictedUser{toConflictedUser(u)},
			RequestedAt: u.DeviceChangeRequestedAt,
		})
	}

	return conflicts, nil
}

func (a *adminService) UserAnalytics(ctx context.Context) (*response_models.UserAnalytics, error) {
	total, err := a.userRepo.CountAll(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	subscribed, err := a.userRepo.CountSubscribed(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	live, err := a.tracker.Count(ctx)
	if err != nil {
		a.logger.Warn("presence count failed", zap.Error(err))
		live = 0
	}

	return &response_models.UserAnalytics{
		TotalUsers:        total,
		LiveUsers:         live,
		SubscribedUsers:   subscribed,
		UnsubscribedUsers: total - subscribed,
	}, nil
}
