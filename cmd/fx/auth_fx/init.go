package auth_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"subgate/internal/config"
	"subgate/internal/repositories"
	"subgate/internal/services"
	"subgate/pkg/presence"
	"subgate/pkg/whatsapp"
)

var Module = fx.Provide(
	provideUserRepo, provideDeviceService, provideAuthService)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideDeviceService(userRepo repositories.UserRepository, logger *zap.Logger) services.DeviceService {
	return services.NewDeviceService(userRepo, logger)
}

func provideAuthService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	subRepo repositories.SubscriptionRepository,
	deviceService services.DeviceService,
	payment services.PaymentService,
	wati whatsapp.TemplateSender,
	tracker presence.Tracker,
	logger *zap.Logger,
) services.AuthService {
	return services.NewAuthService(
		userRepo, subRepo, deviceService, payment, wati, tracker,
		cfg.Razorpay.PenaltyAmount, logger)
}
