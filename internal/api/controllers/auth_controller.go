package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"subgate/internal/models/request_models"
	"subgate/internal/services"
	"subgate/pkg/utils"
)

type AuthController struct {
	authService   services.AuthService
	deviceService services.DeviceService
}

func NewAuthController(authService services.AuthService, deviceService services.DeviceService) *AuthController {
	return &AuthController{
		authService:   authService,
		deviceService: deviceService,
	}
}

// currentUserID reads the authenticated user id set by the JWT middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token subject")
		return uuid.Nil, false
	}
	return id, true
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with email, password and whatsapp; binds the device
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.authService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, res, "Account created successfully")
}

// Login godoc
// @Summary Login with email or whatsapp
// @Description Authenticate with password; enforces the single-device policy
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Login successful")
}

// RegisterMobile godoc
// @Summary Legacy register-or-login by mobile number
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.MobileRegisterRequest true "Mobile payload"
// @Success 200 {object} utils.APIResponse
// @Router /auth/mobile [post]
func (a *AuthController) RegisterMobile(c *gin.Context) {
	var req request_models.MobileRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.authService.RegisterMobile(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Login successful")
}

// SendOtp godoc
// @Summary Send a whatsapp OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SendOtpRequest true "OTP request payload"
// @Success 200 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /auth/otp/send [post]
func (a *AuthController) SendOtp(c *gin.Context) {
	var req request_models.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.authService.SendOtp(c.Request.Context(), req.WhatsApp); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "OTP sent successfully")
}

// VerifyOtp godoc
// @Summary Verify a whatsapp OTP and log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.VerifyOtpRequest true "OTP verification payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/otp/verify [post]
func (a *AuthController) VerifyOtp(c *gin.Context) {
	var req request_models.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.authService.VerifyOtp(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Login successful")
}

// Logout godoc
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (a *AuthController) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := a.authService.Logout(c.Request.Context(), userID.String()); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Logged out successfully")
}

// MismatchBlock godoc
// @Summary Confirm a device mismatch and block the account
// @Description Re-verifies the mismatch server-side before persisting the block
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.MismatchBlockRequest true "Mismatch payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/device/mismatch-block [post]
func (a *AuthController) MismatchBlock(c *gin.Context) {
	var req request_models.MismatchBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.deviceService.ConfirmMismatchBlock(c.Request.Context(), req.Email, req.DeviceID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Account blocked due to device mismatch")
}

// RequestDeviceChange godoc
// @Summary Request a device change
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /auth/device/change-request [post]
func (a *AuthController) RequestDeviceChange(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := a.deviceService.RequestDeviceChange(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Device change request submitted")
}

// CreatePenaltyOrder godoc
// @Summary Create a penalty payment order for device reset
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.PenaltyOrderRequest true "Penalty order payload"
// @Success 200 {object} utils.APIResponse
// @Router /auth/penalty/order [post]
func (a *AuthController) CreatePenaltyOrder(c *gin.Context) {
	var req request_models.PenaltyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := a.authService.CreatePenaltyOrder(c.Request.Context(), req.Email, req.Amount)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, res, "Penalty order created")
}

// VerifyPenaltyPayment godoc
// @Summary Verify a penalty payment and reset the device binding
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.PenaltyVerifyRequest true "Penalty verification payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /auth/penalty/verify [post]
func (a *AuthController) VerifyPenaltyPayment(c *gin.Context) {
	var req request_models.PenaltyVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.authService.VerifyPenaltyPayment(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Device binding reset successfully")
}
