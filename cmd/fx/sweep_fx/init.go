package sweep_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"subgate/internal/config"
	"subgate/internal/repositories"
	"subgate/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideSweepService),
	fx.Invoke(startSweeper))

func provideSweepService(
	cfg *config.Config,
	subRepo repositories.SubscriptionRepository,
	notifier services.NotificationService,
	logger *zap.Logger,
) services.SweepService {
	return services.NewSweepService(subRepo, notifier, cfg.Sweep, logger)
}

// startSweeper runs the maintenance loop for the lifetime of the app.
func startSweeper(lc fx.Lifecycle, sweeper services.SweepService) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sweeper.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
