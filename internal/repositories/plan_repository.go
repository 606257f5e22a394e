package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"subgate/internal/models/db_models"
)

type PlanRepository interface {
	Insert(ctx context.Context, plan *db_models.Plan) error
	Update(ctx context.Context, plan *db_models.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Plan, error)
	FindByCode(ctx context.Context, code string) (*db_models.Plan, error)
	FindAll(ctx context.Context) ([]db_models.Plan, error)
	// FindActive returns plans visible to users: active, and either without an
	// offer badge or with an offer window that has not ended.
	FindActive(ctx context.Context, now int64) ([]db_models.Plan, error)
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Insert(ctx context.Context, plan *db_models.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepository) Update(ctx context.Context, plan *db_models.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *planRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindByCode(ctx context.Context, code string) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := r.db.WithContext(ctx).First(&plan, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindAll(ctx context.Context) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) FindActive(ctx context.Context, now int64) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Where("show_offer_badge = FALSE OR offer_end_at IS NULL OR offer_end_at >= ?", now).
		Find(&plans).Error
	return plans, err
}
