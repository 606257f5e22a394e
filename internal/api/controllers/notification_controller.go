package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"subgate/internal/models/request_models"
	"subgate/internal/services"
	"subgate/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationService
}

func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// CreateBroadcast godoc
// @Summary Create a broadcast notification draft
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body request_models.CreateNotificationRequest true "Notification payload"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/notifications [post]
func (n *NotificationController) CreateBroadcast(c *gin.Context) {
	var req request_models.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	id, err := n.notificationService.CreateBroadcast(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, gin.H{"id": id}, "Notification created successfully")
}

// SendPending godoc
// @Summary Deliver a broadcast's pending notifications
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/notifications/{id}/send [post]
func (n *NotificationController) SendPending(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid notification id")
		return
	}

	sent, failed, err := n.notificationService.SendPending(c.Request.Context(), notificationID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"sent": sent, "failed": failed}, "Notification dispatched")
}

// ListMine godoc
// @Summary List the caller's notifications
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number, 1-based"
// @Param page_size query int false "Rows per page, max 100"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /notifications [get]
func (n *NotificationController) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Non-numeric values parse to zero and are rejected by the service.
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	rows, err := n.notificationService.ListForUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, rows, "Notifications fetched successfully")
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags Notifications
// @Produce json
// @Param id path string true "User notification id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (n *NotificationController) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := n.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Notification marked read")
}
