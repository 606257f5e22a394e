package notification_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"subgate/internal/repositories"
	"subgate/internal/services"
	"subgate/pkg/push"
)

var Module = fx.Provide(
	provideNotificationRepo, provideNotificationService)

func provideNotificationRepo(db *gorm.DB) repositories.NotificationRepository {
	return repositories.NewNotificationRepository(db)
}

func provideNotificationService(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	sender push.Sender,
	logger *zap.Logger,
) services.NotificationService {
	return services.NewNotificationService(notifRepo, userRepo, sender, logger)
}
