package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"subgate/internal/models/db_models"
	"subgate/internal/models/request_models"
	"subgate/internal/models/response_models"
	"subgate/internal/repositories"
	"subgate/pkg/utils"
)

type SubscriptionService interface {
	CreatePlan(ctx context.Context, req request_models.CreatePlanRequest) (*response_models.PlanResponse, error)
	UpdatePlan(ctx context.Context, planID uuid.UUID, req request_models.UpdatePlanRequest) (*response_models.PlanResponse, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*response_models.PlanResponse, error)
	// DeletePlan retires a plan from sale. The row stays for existing
	// subscriptions; it just cannot be ordered or activated anymore.
	DeletePlan(ctx context.Context, planID uuid.UUID) error
	// ListPlans returns every plan for admins, or only active plans with a
	// live offer window for users.
	ListPlans(ctx context.Context, activeOnly bool) ([]response_models.PlanResponse, error)

	CreateOrder(ctx context.Context, userID, planID uuid.UUID) (*response_models.OrderResponse, error)
	// VerifyAndActivate checks the gateway signature and activates the plan.
	// Activation replaces any currently active subscription; the new period
	// starts now, not at the old expiry.
	VerifyAndActivate(ctx context.Context, userID uuid.UUID, req request_models.VerifyPaymentRequest) (*response_models.ActivationResponse, error)
	// AssignPlan activates a plan without payment, for admin grants and bulk
	// imports.
	AssignPlan(ctx context.Context, userID, planID uuid.UUID) (*response_models.ActivationResponse, error)

	MySubscription(ctx context.Context, userID uuid.UUID) (*response_models.MySubscriptionResponse, error)
	// ConsumeUsage spends one unit of the gated feature's daily allowance.
	ConsumeUsage(ctx context.Context, userID uuid.UUID) (remaining int, err error)

	Analytics(ctx context.Context) (*response_models.SubscriptionAnalytics, error)
}

type subscriptionService struct {
	subRepo    repositories.SubscriptionRepository
	planRepo   repositories.PlanRepository
	userRepo   repositories.UserRepository
	payment    PaymentService
	notifier   NotificationService
	dailyLimit int
	logger     *zap.Logger
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.PlanRepository,
	userRepo repositories.UserRepository,
	payment PaymentService,
	notifier NotificationService,
	dailyLimit int,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionService{
		subRepo:    subRepo,
		planRepo:   planRepo,
		userRepo:   userRepo,
		payment:    payment,
		notifier:   notifier,
		dailyLimit: dailyLimit,
		logger:     logger,
	}
}

func toPlanResponse(plan *db_models.Plan) *response_models.PlanResponse {
	return &response_models.PlanResponse{
		ID:               plan.ID,
		Title:            plan.Title,
		Code:             plan.Code,
		Description:      plan.Description,
		DurationInMonths: plan.DurationInMonths,
		ActualPrice:      plan.ActualPrice,
		DiscountedPrice:  plan.DiscountedPrice,
		ShowOfferBadge:   plan.ShowOfferBadge,
		OfferText:        plan.OfferText,
		OfferStartAt:     plan.OfferStartAt,
		OfferEndAt:       plan.OfferEndAt,
		IsActive:         plan.IsActive,
	}
}

func (s *subscriptionService) CreatePlan(ctx context.Context, req request_models.CreatePlanRequest) (*response_models.PlanResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	existing, err := s.planRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrPlanCodeExists
	}

	plan := &db_models.Plan{
		Title:            req.Title,
		Code:             code,
		Description:      req.Description,
		DurationInMonths: req.DurationInMonths,
		ActualPrice:      req.ActualPrice,
		DiscountedPrice:  req.DiscountedPrice,
		ShowOfferBadge:   req.ShowOfferBadge,
		OfferText:        req.OfferText,
		OfferStartAt:     req.OfferStartAt,
		OfferEndAt:       req.OfferEndAt,
		IsActive:         true,
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.planRepo.Insert(ctx, plan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrPlanCodeExists
		}
		return nil, utils.ErrDatabaseError
	}
	return toPlanResponse(plan), nil
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, planID uuid.UUID, req request_models.UpdatePlanRequest) (*response_models.PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	// Code is immutable after creation; subscriptions and bulk imports key
	// on it.
	if req.Title != nil {
		plan.Title = *req.Title
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.DurationInMonths != nil {
		plan.DurationInMonths = *req.DurationInMonths
	}
	if req.ActualPrice != nil {
		plan.ActualPrice = *req.ActualPrice
	}
	if req.DiscountedPrice != nil {
		plan.DiscountedPrice = *req.DiscountedPrice
	}
	if req.ShowOfferBadge != nil {
		plan.ShowOfferBadge = *req.ShowOfferBadge
	}
	if req.OfferText != nil {
		plan.OfferText = *req.OfferText
	}
	if req.OfferStartAt != nil {
		plan.OfferStartAt = req.OfferStartAt
	}
	if req.OfferEndAt != nil {
		plan.OfferEndAt = req.OfferEndAt
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toPlanResponse(plan), nil
}

func (s *subscriptionService) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if plan == nil {
		return utils.ErrPlanNotFound
	}

	plan.IsActive = false
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return utils.ErrDatabaseError
	}

	s.logger.Info("plan retired", zap.String("plan", plan.Code))
	return nil
}

func (s *subscriptionService) GetPlan(ctx context.Context, planID uuid.UUID) (*response_models.PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return toPlanResponse(plan), nil
}

func (s *subscriptionService) ListPlans(ctx context.Context, activeOnly bool) ([]response_models.PlanResponse, error) {
	var plans []db_models.Plan
	var err error
	if activeOnly {
		plans, err = s.planRepo.FindActive(ctx, utils.NowUnixSeconds())
	} else {
		plans, err = s.planRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, *toPlanResponse(&plans[i]))
	}
	return out, nil
}

func (s *subscriptionService) CreateOrder(ctx context.Context, userID, planID uuid.UUID) (*response_models.OrderResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || !plan.IsActive {
		return nil, utils.ErrPlanNotFound
	}

	amountPaise := plan.DiscountedPrice * 100
	uid := userID.String()
	receipt := fmt.Sprintf("sub_%s_%d", uid[len(uid)-6:], time.Now().Unix()%1_000_000)

	orderID, err := s.payment.CreateOrder(ctx, amountPaise, "INR", receipt, map[string]string{
		"userId": uid,
		"planId": plan.ID.String(),
		"type":   "subscription",
	})
	if err != nil {
		return nil, err
	}

	return &response_models.OrderResponse{
		OrderID:  orderID,
		Amount:   amountPaise,
		Currency: "INR",
		PlanName: plan.Title,
	}, nil
}

func (s *subscriptionService) activate(ctx context.Context, userID uuid.UUID, plan *db_models.Plan, paymentID, provider *string) (*response_models.ActivationResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	start := time.Now()
	expiry := utils.EndOfDay(utils.AddMonthsClamped(utils.FromUnixSecondsIST(start.Unix()), plan.DurationInMonths))

	sub := &db_models.Subscription{
		UserID:          userID,
		PlanID:          plan.ID,
		StartDate:       start.Unix(),
		ExpiryDate:      expiry.Unix(),
		IsActive:        true,
		PaymentID:       paymentID,
		PaymentProvider: provider,
		UsageResetAt:    utils.EndOfDay(utils.FromUnixSecondsIST(start.Unix())).Unix(),
	}

	if err := s.subRepo.CreateActive(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrActivationConflict
		}
		return nil, utils.ErrDatabaseError
	}

	s.logger.Info("subscription activated",
		zap.String("user_id", userID.String()),
		zap.String("plan", plan.Code),
		zap.Int64("expiry", sub.ExpiryDate))

	if err := s.notifier.NotifyUser(ctx, userID,
		db_models.NotifSubscriptionActive,
		"Subscription activated",
		fmt.Sprintf("Your %s plan is active until %s.", plan.Title, utils.FormatRFC3339IST(expiry)),
	); err != nil {
		s.logger.Warn("activation notification failed", zap.Error(err))
	}

	return &response_models.ActivationResponse{
		Plan:       plan.Title,
		ExpiryDate: sub.ExpiryDate,
	}, nil
}

func (s *subscriptionService) VerifyAndActivate(ctx context.Context, userID uuid.UUID, req request_models.VerifyPaymentRequest) (*response_models.ActivationResponse, error) {
	if err := s.payment.VerifySignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		return nil, err
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, utils.ErrInvalidRequest
	}
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || !plan.IsActive {
		return nil, utils.ErrPlanNotFound
	}

	provider := db_models.PaymentProviderRazorpay
	return s.activate(ctx, userID, plan, &req.PaymentID, &provider)
}

func (s *subscriptionService) AssignPlan(ctx context.Context, userID, planID uuid.UUID) (*response_models.ActivationResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || !plan.IsActive {
		return nil, utils.ErrPlanNotFound
	}
	return s.activate(ctx, userID, plan, nil, nil)
}

func (s *subscriptionService) MySubscription(ctx context.Context, userID uuid.UUID) (*response_models.MySubscriptionResponse, error) {
	sub, err := s.subRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	now := utils.NowUnixSeconds()
	// A lapsed row the sweep has not reached yet reads as no plan.
	if sub == nil || sub.ExpiryDate < now {
		return nil, utils.ErrNoActivePlan
	}

	daysLeft := int((sub.ExpiryDate - now + 86399) / 86400)
	return &response_models.MySubscriptionResponse{
		PlanName:   sub.Plan.Title,
		ExpiryDate: sub.ExpiryDate,
		DaysLeft:   daysLeft,
	}, nil
}

func (s *subscriptionService) ConsumeUsage(ctx context.Context, userID uuid.UUID) (int, error) {
	sub, err := s.subRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}
	now := utils.NowUnixSeconds()
	if sub == nil || sub.ExpiryDate < now {
		return 0, utils.ErrNoActivePlan
	}

	if now >= sub.UsageResetAt {
		sub.UsageCount = 0
		sub.UsageResetAt = utils.EndOfDay(utils.FromUnixSecondsIST(now)).Unix()
	}
	if sub.UsageCount >= s.dailyLimit {
		return 0, utils.ErrUsageLimitHit
	}

	sub.UsageCount++
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return 0, utils.ErrDatabaseError
	}
	return s.dailyLimit - sub.UsageCount, nil
}

func (s *subscriptionService) Analytics(ctx context.Context) (*response_models.SubscriptionAnalytics, error) {
	total, err := s.subRepo.CountActive(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	rows, err := s.subRepo.PlanWiseCounts(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	planWise := make([]response_models.PlanCount, 0, len(rows))
	for _, r := range rows {
		planWise = append(planWise, response_models.PlanCount{
			PlanID: r.PlanID,
			Title:  r.Title,
			Count:  r.Count,
		})
	}
	return &response_models.SubscriptionAnalytics{
		TotalSubscribedUsers: total,
		PlanWise:             planWise,
	}, nil
}
