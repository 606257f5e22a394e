package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"subgate/internal/models/db_models"
)

type NotificationRepository interface {
	InsertNotification(ctx context.Context, n *db_models.Notification) error
	UpdateNotification(ctx context.Context, n *db_models.Notification) error
	FindNotificationByID(ctx context.Context, id uuid.UUID) (*db_models.Notification, error)
	InsertUserNotifications(ctx context.Context, rows []db_models.UserNotification) error
	FindPending(ctx context.Context, notificationID uuid.UUID) ([]db_models.UserNotification, error)
	UpdateUserNotification(ctx context.Context, row *db_models.UserNotification) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]db_models.UserNotification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, readAt int64) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) InsertNotification(ctx context.Context, n *db_models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) UpdateNotification(ctx context.Context, n *db_models.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *notificationRepository) FindNotificationByID(ctx context.Context, id uuid.UUID) (*db_models.Notification, error) {
	var n db_models.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) InsertUserNotifications(ctx context.Context, rows []db_models.UserNotification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *notificationRepository) FindPending(ctx context.Context, notificationID uuid.UUID) ([]db_models.UserNotification, error) {
	var rows []db_models.UserNotification
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Notification").
		Where("notification_id = ? AND status = ?", notificationID, db_models.DeliveryPending).
		Find(&rows).Error
	return rows, err
}

func (r *notificationRepository) UpdateUserNotification(ctx context.Context, row *db_models.UserNotification) error {
	return r.db.WithContext(ctx).Model(&db_models.UserNotification{}).
		Where("id = ?", row.ID).
		Update("status", row.Status).Error
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]db_models.UserNotification, error) {
	var rows []db_models.UserNotification
	err := r.db.WithContext(ctx).
		Preload("Notification").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, readAt int64) error {
	res := r.db.WithContext(ctx).Model(&db_models.UserNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", readAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
