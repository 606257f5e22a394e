package subscription_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"subgate/internal/config"
	"subgate/internal/repositories"
	"subgate/internal/services"
)

var Module = fx.Provide(
	providePlanRepo, provideSubscriptionRepo, provideSubscriptionService)

func providePlanRepo(db *gorm.DB) repositories.PlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideSubscriptionService(
	cfg *config.Config,
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.PlanRepository,
	userRepo repositories.UserRepository,
	payment services.PaymentService,
	notifier services.NotificationService,
	logger *zap.Logger,
) services.SubscriptionService {
	return services.NewSubscriptionService(
		subRepo, planRepo, userRepo, payment, notifier,
		cfg.UsageDailyLimit, logger)
}
