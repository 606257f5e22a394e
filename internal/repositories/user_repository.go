package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"subgate/internal/models/db_models"
)

type UserRepository interface {
	Insert(ctx context.Context, user *db_models.User) error
	Update(ctx context.Context, user *db_models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByWhatsApp(ctx context.Context, whatsapp string) (*db_models.User, error)
	FindByMobile(ctx context.Context, mobile string) (*db_models.User, error)
	FindByEmailOrWhatsApp(ctx context.Context, email, whatsapp string) (*db_models.User, error)
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)
	CountAll(ctx context.Context) (int64, error)
	CountSubscribed(ctx context.Context) (int64, error)
	FindWithDevice(ctx context.Context) ([]db_models.User, error)
	FindChangeRequested(ctx context.Context) ([]db_models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Insert(ctx context.Context, user *db_models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *db_models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes the account and its subscriptions. Admin-only.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&db_models.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db_models.User{}, "id = ?", id).Error
	})
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...interface{}) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).First(&user, append([]interface{}{query}, args...)...).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByWhatsApp(ctx context.Context, whatsapp string) (*db_models.User, error) {
	return r.findOne(ctx, "whats_app = ?", whatsapp)
}

func (r *userRepository) FindByMobile(ctx context.Context, mobile string) (*db_models.User, error) {
	return r.findOne(ctx, "mobile = ?", mobile)
}

func (r *userRepository) FindByEmailOrWhatsApp(ctx context.Context, email, whatsapp string) (*db_models.User, error) {
	return r.findOne(ctx, "email = ? OR whats_app = ?", email, whatsapp)
}

// FindAllIDs feeds broadcast fan-out; it pulls only the primary keys.
func (r *userRepository) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&db_models.User{}).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db_models.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CountSubscribed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db_models.User{}).
		Where("active_plan_id IS NOT NULL").
		Count(&count).Error
	return count, err
}

func (r *userRepository) FindWithDevice(ctx context.Context) ([]db_models.User, error) {
	var users []db_models.User
	err := r.db.WithContext(ctx).
		Where("device_id IS NOT NULL AND device_id <> ''").
		Find(&users).Error
	return users, err
}

func (r *userRepository) FindChangeRequested(ctx context.Context) ([]db_models.User, error) {
	var users []db_models.User
	err := r.db.WithContext(ctx).
		Where("device_change_requested = TRUE").
		Find(&users).Error
	return users, err
}
