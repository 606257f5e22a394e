package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"subgate/internal/services"
	"subgate/pkg/utils"
)

type AdminController struct {
	adminService services.AdminService
}

func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

func pathUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

// BlockUser godoc
// @Summary Block a user
// @Tags Admin
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/users/{id}/block [post]
func (a *AdminController) BlockUser(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	if err := a.adminService.SetBlocked(c.Request.Context(), userID, true); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "User blocked successfully")
}

// UnblockUser godoc
// @Summary Unblock a user
// @Tags Admin
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/users/{id}/unblock [post]
func (a *AdminController) UnblockUser(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	if err := a.adminService.SetBlocked(c.Request.Context(), userID, false); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "User unblocked successfully")
}

// ResetDevice godoc
// @Summary Reset a user's device binding
// @Tags Admin
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/users/{id}/reset-device [post]
func (a *AdminController) ResetDevice(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	if err := a.adminService.ResetDevice(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Device binding reset successfully")
}

// ApproveDeviceChange godoc
// @Summary Approve a pending device change request
// @Tags Admin
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/users/{id}/approve-device-change [post]
func (a *AdminController) ApproveDeviceChange(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	if err := a.adminService.ApproveDeviceChange(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Device change approved")
}

// DeleteUser godoc
// @Summary Delete a user and their subscriptions
// @Tags Admin
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (a *AdminController) DeleteUser(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	if err := a.adminService.DeleteUser(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "User deleted successfully")
}

// DeviceConflicts godoc
// @Summary Report device conflicts and pending change requests
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/device-conflicts [get]
func (a *AdminController) DeviceConflicts(c *gin.Context) {
	conflicts, err := a.adminService.DeviceConflicts(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, conflicts, "Device conflicts fetched successfully")
}

// UserAnalytics godoc
// @Summary User analytics including live user count
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/users/analytics [get]
func (a *AdminController) UserAnalytics(c *gin.Context) {
	res, err := a.adminService.UserAnalytics(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, res, "Analytics fetched successfully")
}
