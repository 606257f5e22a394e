package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"subgate/internal/models/request_models"
	"subgate/internal/services"
	"subgate/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionController(subscriptionService services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptionService: subscriptionService}
}

// ListPlans godoc
// @Summary List purchasable plans
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (s *SubscriptionController) ListPlans(c *gin.Context) {
	plans, err := s.subscriptionService.ListPlans(c.Request.Context(), true)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// ListAllPlans godoc
// @Summary List every plan including inactive ones
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/plans [get]
func (s *SubscriptionController) ListAllPlans(c *gin.Context) {
	plans, err := s.subscriptionService.ListPlans(c.Request.Context(), false)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// GetPlan godoc
// @Summary Get one plan
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Plan id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{id} [get]
func (s *SubscriptionController) GetPlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	plan, err := s.subscriptionService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}

// CreatePlan godoc
// @Summary Create a plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlanRequest true "Plan payload"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/plans [post]
func (s *SubscriptionController) CreatePlan(c *gin.Context) {
	var req request_models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := s.subscriptionService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, plan, "Plan created successfully")
}

// UpdatePlan godoc
// @Summary Update a plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Plan id"
// @Param request body request_models.UpdatePlanRequest true "Plan update payload"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/plans/{id} [put]
func (s *SubscriptionController) UpdatePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	var req request_models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := s.subscriptionService.UpdatePlan(c.Request.Context(), planID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plan, "Plan updated successfully")
}

// DeletePlan godoc
// @Summary Retire a plan from sale
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Plan id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/plans/{id} [delete]
func (s *SubscriptionController) DeletePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	if err := s.subscriptionService.DeletePlan(c.Request.Context(), planID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Plan deleted successfully")
}

// CreateOrder godoc
// @Summary Create a payment order for a plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.SubscribeRequest true "Order payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/order [post]
func (s *SubscriptionController) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	order, err := s.subscriptionService.CreateOrder(c.Request.Context(), userID, planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, order, "Order created successfully")
}

// VerifyPayment godoc
// @Summary Verify a payment and activate the plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.VerifyPaymentRequest true "Payment verification payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/verify [post]
func (s *SubscriptionController) VerifyPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := s.subscriptionService.VerifyAndActivate(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, res, "Subscription activated successfully")
}

// AssignPlan godoc
// @Summary Assign a plan to a user without payment
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.AssignPlanRequest true "Assignment payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/subscriptions/assign [post]
func (s *SubscriptionController) AssignPlan(c *gin.Context) {
	var req request_models.AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	res, err := s.subscriptionService.AssignPlan(c.Request.Context(), userID, planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, res, "Plan assigned successfully")
}

// MySubscription godoc
// @Summary Get the caller's active subscription
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/me [get]
func (s *SubscriptionController) MySubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	res, err := s.subscriptionService.MySubscription(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, res, "Subscription fetched successfully")
}

// UseFeature godoc
// @Summary Access the subscription-gated feature
// @Description The usage gate middleware has already spent one unit of the daily allowance
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Security BearerAuth
// @Router /feature/use [post]
func (s *SubscriptionController) UseFeature(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"remaining": c.GetInt("usage_remaining")}, "Usage recorded")
}

// Analytics godoc
// @Summary Subscription analytics
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/subscriptions/analytics [get]
func (s *SubscriptionController) Analytics(c *gin.Context) {
	res, err := s.subscriptionService.Analytics(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, res, "Analytics fetched successfully")
}
