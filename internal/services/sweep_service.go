package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"subgate/internal/config"
	"subgate/internal/models/db_models"
	"subgate/internal/repositories"
	"subgate/pkg/utils"
)

// SweepService runs the periodic subscription maintenance passes: expiring
// lapsed subscriptions and reminding users whose plan ends soon.
type SweepService interface {
	RunExpiry(ctx context.Context) (expired int, err error)
	RunReminder(ctx context.Context) (reminded int, err error)
	// Run executes both passes immediately and then on every tick until the
	// context is cancelled.
	Run(ctx context.Context)
}

type sweepService struct {
	subRepo  repositories.SubscriptionRepository
	notifier NotificationService
	cfg      config.SweepConfig
	logger   *zap.Logger
}

func NewSweepService(
	subRepo repositories.SubscriptionRepository,
	notifier NotificationService,
	cfg config.SweepConfig,
	logger *zap.Logger,
) SweepService {
	return &sweepService{
		subRepo:  subRepo,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *sweepService) RunExpiry(ctx context.Context) (int, error) {
	now := utils.NowUnixSeconds()
	subs, err := s.subRepo.FindExpired(ctx, now)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}

	expired := 0
	for i := range subs {
		sub := &subs[i]
		if err := s.subRepo.Expire(ctx, sub); err != nil {
			// Another sweep pass already claimed this row.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			s.logger.Error("expiry update failed",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			continue
		}
		expired++

		if err := s.notifier.NotifyUser(ctx, sub.UserID,
			db_models.NotifSubscriptionExpired,
			"Subscription expired",
			fmt.Sprintf("Your %s plan has expired. Renew to keep access.", sub.Plan.Title),
		); err != nil {
			s.logger.Warn("expiry notification failed",
				zap.String("user_id", sub.UserID.String()),
				zap.Error(err))
		}
	}

	if expired > 0 {
		s.logger.Info("expiry sweep done", zap.Int("expired", expired))
	}
	return expired, nil
}

func (s *sweepService) RunReminder(ctx context.Context) (int, error) {
	now := utils.NowUnixSeconds()
	to := now + int64(s.cfg.ReminderDays)*86400

	subs, err := s.subRepo.FindExpiring(ctx, now, to, s.cfg.RemindOnce)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}

	reminded := 0
	for i := range subs {
		sub := &subs[i]
		daysLeft := int((sub.ExpiryDate - now + 86399) / 86400)

		if err := s.notifier.NotifyUser(ctx, sub.UserID,
			db_models.NotifSubscriptionExpiring,
			"Subscription expiring soon",
			fmt.Sprintf("Your %s plan expires in %d day(s). Renew to avoid interruption.", sub.Plan.Title, daysLeft),
		); err != nil {
			s.logger.Warn("reminder notification failed",
				zap.String("user_id", sub.UserID.String()),
				zap.Error(err))
			continue
		}
		reminded++

		if s.cfg.RemindOnce {
			remindedAt := now
			sub.RemindedAt = &remindedAt
			if err := s.subRepo.Update(ctx, sub); err != nil {
				s.logger.Warn("reminder marker update failed",
					zap.String("subscription_id", sub.ID.String()),
					zap.Error(err))
			}
		}
	}

	if reminded > 0 {
		s.logger.Info("reminder sweep done", zap.Int("reminded", reminded))
	}
	return reminded, nil
}

func (s *sweepService) runOnce(ctx context.Context) {
	if _, err := s.RunExpiry(ctx); err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
	}
	if _, err := s.RunReminder(ctx); err != nil {
		s.logger.Error("reminder sweep failed", zap.Error(err))
	}
}

func (s *sweepService) Run(ctx context.Context) {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	s.logger.Info("sweeper started", zap.Duration("interval", interval))
	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}
