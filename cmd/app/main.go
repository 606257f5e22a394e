package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"subgate/cmd/fx/admin_fx"
	"subgate/cmd/fx/auth_fx"
	"subgate/cmd/fx/config_fx"
	"subgate/cmd/fx/controllers_fx"
	"subgate/cmd/fx/db_fx"
	"subgate/cmd/fx/notification_fx"
	"subgate/cmd/fx/providers_fx"
	"subgate/cmd/fx/subscription_fx"
	"subgate/cmd/fx/sweep_fx"
	"subgate/internal/api/controllers"
	"subgate/internal/config"
	"subgate/internal/services"
	"subgate/pkg/middleware"
	"subgate/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		providers_fx.Module,
		auth_fx.Module,
		subscription_fx.Module,
		notification_fx.Module,
		admin_fx.Module,
		sweep_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideRouter(
	cfg *config.Config,
	subscriptionService services.SubscriptionService,
	authController *controllers.AuthController,
	subscriptionController *controllers.SubscriptionController,
	notificationController *controllers.NotificationController,
	adminController *controllers.AdminController,
) *gin.Engine {
	utils.InitJWT(cfg.JWTSecret)
	utils.RegisterCustomValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, subscriptionService, authController, subscriptionController, notificationController, adminController)
	return r
}

func RegisterRoutes(r *gin.Engine,
	subscriptionService services.SubscriptionService,
	authController *controllers.AuthController,
	subscriptionController *controllers.SubscriptionController,
	notificationController *controllers.NotificationController,
	adminController *controllers.AdminController) {

	auth := r.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/mobile", authController.RegisterMobile)
	auth.POST("/otp/send", authController.SendOtp)
	auth.POST("/otp/resend", authController.SendOtp)
	auth.POST("/otp/verify", authController.VerifyOtp)
	auth.POST("/device/mismatch-block", authController.MismatchBlock)
	auth.POST("/penalty/order", authController.CreatePenaltyOrder)
	auth.POST("/penalty/verify", authController.VerifyPenaltyPayment)

	authGuarded := r.Group("/auth", middleware.JWTAuthMiddleware())
	authGuarded.POST("/logout", authController.Logout)
	authGuarded.POST("/device/change-request", authController.RequestDeviceChange)

	r.GET("/plans", subscriptionController.ListPlans)
	r.GET("/plans/:id", subscriptionController.GetPlan)

	subs := r.Group("/subscriptions", middleware.JWTAuthMiddleware())
	subs.POST("/order", subscriptionController.CreateOrder)
	subs.POST("/verify", subscriptionController.VerifyPayment)
	subs.GET("/me", subscriptionController.MySubscription)

	gated := r.Group("/feature", middleware.JWTAuthMiddleware(), middleware.UsageGate(subscriptionService))
	gated.POST("/use", subscriptionController.UseFeature)

	notifs := r.Group("/notifications", middleware.JWTAuthMiddleware())
	notifs.GET("", notificationController.ListMine)
	notifs.POST("/:id/read", notificationController.MarkRead)

	admin := r.Group("/admin", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	admin.GET("/plans", subscriptionController.ListAllPlans)
	admin.POST("/plans", subscriptionController.CreatePlan)
	admin.PUT("/plans/:id", subscriptionController.UpdatePlan)
	admin.DELETE("/plans/:id", subscriptionController.DeletePlan)
	admin.POST("/subscriptions/assign", subscriptionController.AssignPlan)
	admin.GET("/subscriptions/analytics", subscriptionController.Analytics)
	admin.POST("/notifications", notificationController.CreateBroadcast)
	admin.POST("/notifications/:id/send", notificationController.SendPending)
	admin.POST("/users/:id/block", adminController.BlockUser)
	admin.POST("/users/:id/unblock", adminController.UnblockUser)
	admin.POST("/users/:id/reset-device", adminController.ResetDevice)
	admin.POST("/users/:id/approve-device-change", adminController.ApproveDeviceChange)
	admin.DELETE("/users/:id", adminController.DeleteUser)
	admin.GET("/device-conflicts", adminController.DeviceConflicts)
	admin.GET("/users/analytics", adminController.UserAnalytics)
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
