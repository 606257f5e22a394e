package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status    string      `json:"status"`
	Code      int         `json:"code"`
	Message   string      `json:"message,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	IsBlocked *bool       `json:"is_blocked,omitempty"`
	// The client branches on this flag to offer the device-change or
	// penalty-payment recovery flows.
	IsDeviceMismatch *bool `json:"is_device_mismatch,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func boolPtr(b bool) *bool { return &b }

func respondFlagged(c *gin.Context, code int, message string, blocked, mismatch bool) {
	c.JSON(code, APIResponse{
		Status:           "error",
		Code:             code,
		Message:          message,
		TraceID:          traceID(c),
		IsBlocked:        boolPtr(blocked),
		IsDeviceMismatch: boolPtr(mismatch),
	})
}

// HandleServiceError maps service sentinel errors to HTTP responses.
// Device-mismatch and blocked-account rejections carry machine-readable
// flags alongside the human message.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDeviceIDRequired):
		RespondError(c, http.StatusBadRequest, "Device ID is required for login. Please contact admin if you need assistance.")
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidPage),
		errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrNotificationNotFound):
		RespondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrWhatsAppAlreadyExists),
		errors.Is(err, ErrPlanCodeExists),
		errors.Is(err, ErrRequestAlreadyPending):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrActivationConflict):
		RespondError(c, http.StatusConflict, "Another activation is in progress, please retry")

	case errors.Is(err, ErrDeviceMismatch):
		respondFlagged(c, http.StatusForbidden,
			"Login failed. This account is registered to another device. Contact admin to reset device.",
			true, true)
	case errors.Is(err, ErrAccountBlocked):
		respondFlagged(c, http.StatusForbidden,
			"Your account has been blocked. Contact admin.",
			true, false)
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidOtp):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrPasswordNotSet):
		RespondError(c, http.StatusUnauthorized, "This account does not have a password set. Please contact admin.")
	case errors.Is(err, ErrNoActiveOtp), errors.Is(err, ErrOtpExpired):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNoMismatchDetected):
		RespondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, ErrPaymentVerification):
		RespondError(c, http.StatusBadRequest, "Payment verification failed")
	case errors.Is(err, ErrPaymentNotConfigured):
		RespondError(c, http.StatusInternalServerError, "Payment service is not configured. Please contact support.")
	case errors.Is(err, ErrProviderFailure):
		RespondError(c, http.StatusBadGateway, err.Error())

	case errors.Is(err, ErrNoActivePlan):
		RespondError(c, http.StatusPaymentRequired, "No active subscription")
	case errors.Is(err, ErrUsageLimitHit):
		RespondError(c, http.StatusTooManyRequests, err.Error())

	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
