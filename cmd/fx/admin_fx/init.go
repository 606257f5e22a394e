package admin_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"subgate/internal/repositories"
	"subgate/internal/services"
	"subgate/pkg/presence"
)

var Module = fx.Provide(
	provideAdminService)

func provideAdminService(
	userRepo repositories.UserRepository,
	deviceService services.DeviceService,
	tracker presence.Tracker,
	logger *zap.Logger,
) services.AdminService {
	return services.NewAdminService(userRepo, deviceService, tracker, logger)
}
