package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"subgate/internal/models/db_models"
)

// PlanWiseCount is one row of the plan-wise analytics aggregation.
type PlanWiseCount struct {
	PlanID uuid.UUID
	Title  string
	Count  int64
}

type SubscriptionRepository interface {
	// CreateActive deactivates every active subscription of the user and
	// inserts the new active row in one transaction, then repoints the
	// account's active-plan projection. The partial unique index rejects the
	// loser of a concurrent activation race; that surfaces as
	// gorm.ErrDuplicatedKey.
	CreateActive(ctx context.Context, sub *db_models.Subscription) error
	Update(ctx context.Context, sub *db_models.Subscription) error
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error)
	// Expire flips one lapsed row inactive and marks it notified, and clears
	// the owner's active-plan pointer, in one transaction.
	Expire(ctx context.Context, sub *db_models.Subscription) error
	FindExpired(ctx context.Context, now int64) ([]db_models.Subscription, error)
	FindExpiring(ctx context.Context, from, to int64, unremindedOnly bool) ([]db_models.Subscription, error)
	CountActive(ctx context.Context) (int64, error)
	PlanWiseCounts(ctx context.Context) ([]PlanWiseCount, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreateActive(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db_models.Subscription{}).
			Where("user_id = ? AND is_active = TRUE", sub.UserID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		return tx.Model(&db_models.User{}).
			Where("id = ?", sub.UserID).
			Update("active_plan_id", sub.ID).Error
	})
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *subscriptionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		First(&sub, "user_id = ? AND is_active = TRUE", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Expire(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db_models.Subscription{}).
			Where("id = ? AND expired_notification_sent = FALSE", sub.ID).
			Updates(map[string]interface{}{
				"is_active":                 false,
				"expired_notification_sent": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another sweep already claimed this row.
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&db_models.User{}).
			Where("id = ? AND active_plan_id = ?", sub.UserID, sub.ID).
			Update("active_plan_id", nil).Error
	})
}

func (r *subscriptionRepository) FindExpired(ctx context.Context, now int64) ([]db_models.Subscription, error) {
	var subs []db_models.Subscription
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Plan").
		Where("is_active = TRUE AND expiry_date < ? AND expired_notification_sent = FALSE", now).
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) FindExpiring(ctx context.Context, from, to int64, unremindedOnly bool) ([]db_models.Subscription, error) {
	q := r.db.WithContext(ctx).
		Preload("User").Preload("Plan").
		Where("is_active = TRUE AND expiry_date >= ? AND expiry_date <= ?", from, to)
	if unremindedOnly {
		q = q.Where("reminded_at IS NULL")
	}
	var subs []db_models.Subscription
	err := q.Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db_models.Subscription{}).
		Where("is_active = TRUE").
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) PlanWiseCounts(ctx context.Context) ([]PlanWiseCount, error) {
	var rows []PlanWiseCount
	err := r.db.WithContext(ctx).Model(&db_models.Subscription{}).
		Select("subscriptions.plan_id, plans.title, count(*) as count").
		Joins("JOIN plans ON plans.id = subscriptions.plan_id").
		Where("subscriptions.is_active = TRUE").
		Group("subscriptions.plan_id, plans.title").
		Scan(&rows).Error
	return rows, err
}
