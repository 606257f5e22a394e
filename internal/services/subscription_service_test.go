package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"subgate/internal/models/db_models"
	"subgate/internal/models/request_models"
	"subgate/internal/services"
	"subgate/pkg/utils"
)

func newSubscriptionFixture() (*MockSubscriptionRepository, *MockPlanRepository, *MockUserRepository, *MockPaymentService, *MockNotificationService, services.SubscriptionService) {
	subRepo := new(MockSubscriptionRepository)
	planRepo := new(MockPlanRepository)
	userRepo := new(MockUserRepository)
	payment := new(MockPaymentService)
	notifier := new(MockNotificationService)
	svc := services.NewSubscriptionService(subRepo, planRepo, userRepo, payment, notifier, 50, zap.NewNop())
	return subRepo, planRepo, userRepo, payment, notifier, svc
}

func monthlyPlan() *db_models.Plan {
	return &db_models.Plan{
		BaseModel:        db_models.BaseModel{ID: uuid.New()},
		Title:            "Monthly",
		Code:             "MONTHLY",
		DurationInMonths: 1,
		ActualPrice:      799,
		DiscountedPrice:  499,
		IsActive:         true,
	}
}

func TestSubscriptionService_CreatePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("code is uppercased and stored", func(t *testing.T) {
		_, planRepo, _, _, _, svc := newSubscriptionFixture()
		planRepo.On("FindByCode", ctx, "QUARTERLY").Return(nil, nil)
		planRepo.On("Insert", ctx, mock.MatchedBy(func(p *db_models.Plan) bool {
			return p.Code == "QUARTERLY" && p.IsActive
		})).Return(nil)

		res, err := svc.CreatePlan(ctx, request_models.CreatePlanRequest{
			Title:            "Quarterly",
			Code:             " quarterly ",
			DurationInMonths: 3,
			ActualPrice:      1999,
			DiscountedPrice:  1499,
		})

		assert.NoError(t, err)
		assert.Equal(t, "QUARTERLY", res.Code)
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		_, planRepo, _, _, _, svc := newSubscriptionFixture()
		planRepo.On("FindByCode", ctx, "MONTHLY").Return(monthlyPlan(), nil)

		_, err := svc.CreatePlan(ctx, request_models.CreatePlanRequest{
			Title:            "Monthly",
			Code:             "MONTHLY",
			DurationInMonths: 1,
			ActualPrice:      799,
			DiscountedPrice:  499,
		})

		assert.ErrorIs(t, err, utils.ErrPlanCodeExists)
	})
}

func TestSubscriptionService_VerifyAndActivate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("activates with a one month expiry", func(t *testing.T) {
		plan := monthlyPlan()
		subRepo, planRepo, userRepo, payment, notifier, svc := newSubscriptionFixture()

		payment.On("VerifySignature", "order_1", "pay_1", "sig").Return(nil)
		planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)
		userRepo.On("FindByID", ctx, userID).Return(&db_models.User{BaseModel: db_models.BaseModel{ID: userID}}, nil)
		notifier.On("NotifyUser", ctx, userID, db_models.NotifSubscriptionActive, mock.Anything, mock.Anything).Return(nil)

		var captured *db_models.Subscription
		subRepo.On("CreateActive", ctx, mock.MatchedBy(func(s *db_models.Subscription) bool {
			captured = s
			return s.UserID == userID && s.PlanID == plan.ID && s.IsActive
		})).Return(nil)

		res, err := svc.VerifyAndActivate(ctx, userID, request_models.VerifyPaymentRequest{
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "sig",
			PlanID:    plan.ID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Monthly", res.Plan)
		assert.NotNil(t, captured)
		assert.Equal(t, "pay_1", *captured.PaymentID)
		assert.Equal(t, db_models.PaymentProviderRazorpay, *captured.PaymentProvider)

		// One calendar month ahead, clamped, end of day.
		gap := time.Duration(captured.ExpiryDate-captured.StartDate) * time.Second
		assert.GreaterOrEqual(t, gap, 27*24*time.Hour)
		assert.LessOrEqual(t, gap, 32*24*time.Hour)
	})

	t.Run("bad signature never reaches the store", func(t *testing.T) {
		plan := monthlyPlan()
		subRepo, _, _, payment, _, svc := newSubscriptionFixture()
		payment.On("VerifySignature", "order_1", "pay_1", "bad").Return(utils.ErrPaymentVerification)

		_, err := svc.VerifyAndActivate(ctx, userID, request_models.VerifyPaymentRequest{
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "bad",
			PlanID:    plan.ID.String(),
		})

		assert.ErrorIs(t, err, utils.ErrPaymentVerification)
		subRepo.AssertNotCalled(t, "CreateActive", mock.Anything, mock.Anything)
	})

	t.Run("retired plan is rejected even with a valid signature", func(t *testing.T) {
		plan := monthlyPlan()
		plan.IsActive = false
		subRepo, planRepo, _, payment, _, svc := newSubscriptionFixture()

		payment.On("VerifySignature", "order_1", "pay_1", "sig").Return(nil)
		planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)

		_, err := svc.VerifyAndActivate(ctx, userID, request_models.VerifyPaymentRequest{
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "sig",
			PlanID:    plan.ID.String(),
		})

		assert.ErrorIs(t, err, utils.ErrPlanNotFound)
		subRepo.AssertNotCalled(t, "CreateActive", mock.Anything, mock.Anything)
	})

	t.Run("concurrent activation loses to the unique index", func(t *testing.T) {
		plan := monthlyPlan()
		subRepo, planRepo, userRepo, payment, _, svc := newSubscriptionFixture()

		payment.On("VerifySignature", "order_1", "pay_1", "sig").Return(nil)
		planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)
		userRepo.On("FindByID", ctx, userID).Return(&db_models.User{BaseModel: db_models.BaseModel{ID: userID}}, nil)
		subRepo.On("CreateActive", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := svc.VerifyAndActivate(ctx, userID, request_models.VerifyPaymentRequest{
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "sig",
			PlanID:    plan.ID.String(),
		})

		assert.ErrorIs(t, err, utils.ErrActivationConflict)
	})
}

func TestSubscriptionService_AssignPlan(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("grants a plan without payment fields", func(t *testing.T) {
		plan := monthlyPlan()
		subRepo, planRepo, userRepo, _, notifier, svc := newSubscriptionFixture()

		planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)
		userRepo.On("FindByID", ctx, userID).Return(&db_models.User{BaseModel: db_models.BaseModel{ID: userID}}, nil)
		notifier.On("NotifyUser", ctx, userID, db_models.NotifSubscriptionActive, mock.Anything, mock.Anything).Return(nil)
		subRepo.On("CreateActive", ctx, mock.MatchedBy(func(s *db_models.Subscription) bool {
			return s.PaymentID == nil && s.PaymentProvider == nil
		})).Return(nil)

		res, err := svc.AssignPlan(ctx, userID, plan.ID)

		assert.NoError(t, err)
		assert.Equal(t, "Monthly", res.Plan)
	})

	t.Run("retired plan cannot be granted", func(t *testing.T) {
		plan := monthlyPlan()
		plan.IsActive = false
		subRepo, planRepo, _, _, _, svc := newSubscriptionFixture()
		planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)

		_, err := svc.AssignPlan(ctx, userID, plan.ID)

		assert.ErrorIs(t, err, utils.ErrPlanNotFound)
		subRepo.AssertNotCalled(t, "CreateActive", mock.Anything, mock.Anything)
	})
}

func TestSubscriptionService_DeletePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("retires the plan in place", func(t *testing.T) {
		plan := monthlyPlan()
		_, planRepo, _, _, _, svc := newSubscriptionFixture()

		planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)
		planRepo.On("Update", ctx, mock.MatchedBy(func(p *db_models.Plan) bool {
			return p.ID == plan.ID && !p.IsActive
		})).Return(nil)

		err := svc.DeletePlan(ctx, plan.ID)

		assert.NoError(t, err)
		planRepo.AssertExpectations(t)
	})

	t.Run("unknown plan", func(t *testing.T) {
		_, planRepo, _, _, _, svc := newSubscriptionFixture()
		id := uuid.New()
		planRepo.On("FindByID", ctx, id).Return(nil, nil)

		err := svc.DeletePlan(ctx, id)

		assert.ErrorIs(t, err, utils.ErrPlanNotFound)
	})
}

func TestSubscriptionService_MySubscription(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("active subscription", func(t *testing.T) {
		subRepo, _, _, _, _, svc := newSubscriptionFixture()
		now := time.Now().Unix()
		subRepo.On("FindActiveByUser", ctx, userID).Return(&db_models.Subscription{
			UserID:     userID,
			ExpiryDate: now + 5*86400,
			IsActive:   true,
			Plan:       db_models.Plan{Title: "Monthly"},
		}, nil)

		res, err := svc.MySubscription(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, "Monthly", res.PlanName)
		assert.Equal(t, 5, res.DaysLeft)
	})

	t.Run("no subscription", func(t *testing.T) {
		subRepo, _, _, _, _, svc := newSubscriptionFixture()
		subRepo.On("FindActiveByUser", ctx, userID).Return(nil, nil)

		_, err := svc.MySubscription(ctx, userID)

		assert.ErrorIs(t, err, utils.ErrNoActivePlan)
	})

	t.Run("lapsed but not yet swept reads as no plan", func(t *testing.T) {
		subRepo, _, _, _, _, svc := newSubscriptionFixture()
		subRepo.On("FindActiveByUser", ctx, userID).Return(&db_models.Subscription{
			UserID:     userID,
			ExpiryDate: time.Now().Unix() - 60,
			IsActive:   true,
		}, nil)

		_, err := svc.MySubscription(ctx, userID)

		assert.ErrorIs(t, err, utils.ErrNoActivePlan)
	})
}

func TestSubscriptionService_ConsumeUsage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("increments and reports remaining", func(t *testing.T) {
		subRepo, _, _, _, _, svc := newSubscriptionFixture()
		now := time.Now().Unix()
		sub := &db_models.Subscription{
			UserID:       userID,
			ExpiryDate:   now + 86400,
			IsActive:     true,
			UsageCount:   10,
			UsageResetAt: now + 3600,
		}
		subRepo.On("FindActiveByUser", ctx, userID).Return(sub, nil)
		subRepo.On("Update", ctx, sub).Return(nil)

		remaining, err := svc.ConsumeUsage(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 39, remaining)
		assert.Equal(t, 11, sub.UsageCount)
	})

	t.Run("limit reached", func(t *testing.T) {
		subRepo, _, _, _, _, svc := newSubscriptionFixture()
		now := time.Now().Unix()
		subRepo.On("FindActiveByUser", ctx, userID).Return(&db_models.Subscription{
			UserID:       userID,
			ExpiryDate:   now + 86400,
			IsActive:     true,
			UsageCount:   50,
			UsageResetAt: now + 3600,
		}, nil)

		_, err := svc.ConsumeUsage(ctx, userID)

		assert.ErrorIs(t, err, utils.ErrUsageLimitHit)
	})

	t.Run("stale counter resets at the new day", func(t *testing.T) {
		subRepo, _, _, _, _, svc := newSubscriptionFixture()
		now := time.Now().Unix()
		sub := &db_models.Subscription{
			UserID:       userID,
			ExpiryDate:   now + 86400,
			IsActive:     true,
			UsageCount:   50,
			UsageResetAt: now - 60,
		}
		subRepo.On("FindActiveByUser", ctx, userID).Return(sub, nil)
		subRepo.On("Update", ctx, sub).Return(nil)

		remaining, err := svc.ConsumeUsage(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 49, remaining)
		assert.Equal(t, 1, sub.UsageCount)
		assert.Greater(t, sub.UsageResetAt, now)
	})
}
