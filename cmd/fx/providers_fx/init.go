package providers_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"subgate/internal/config"
	"subgate/internal/infra"
	"subgate/internal/services"
	"subgate/pkg/presence"
	"subgate/pkg/push"
	"subgate/pkg/whatsapp"
)

// Module wires the external providers: payment gateway, whatsapp templates,
// push delivery and the redis presence tracker.
var Module = fx.Provide(
	providePaymentService,
	provideWatiSender,
	providePushSender,
	providePresenceTracker)

func providePaymentService(cfg *config.Config, logger *zap.Logger) services.PaymentService {
	return services.NewPaymentService(cfg.Razorpay, logger)
}

func provideWatiSender(cfg *config.Config, logger *zap.Logger) whatsapp.TemplateSender {
	return whatsapp.NewWatiSender(whatsapp.Config{
		BaseURL:     cfg.Wati.BaseURL,
		AccessToken: cfg.Wati.AccessToken,
		CountryCode: cfg.Wati.CountryCode,
	}, logger)
}

func providePushSender(cfg *config.Config, logger *zap.Logger) push.Sender {
	return push.NewHTTPSender(push.Config{
		BaseURL:   cfg.Push.BaseURL,
		ServerKey: cfg.Push.ServerKey,
	}, logger)
}

// Presence falls back to a noop tracker when redis is not configured; live
// user counts just read zero.
func providePresenceTracker(cfg *config.Config) presence.Tracker {
	client := infra.InitRedis(cfg)
	if client == nil {
		return presence.NoopTracker{}
	}
	return presence.NewRedisTracker(client)
}
