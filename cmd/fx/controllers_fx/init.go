package controllers_fx

import (
	"go.uber.org/fx"

	"subgate/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewNotificationController),
	fx.Provide(controllers.NewAdminController))
