package utils

import "errors"

var (
	// Validation
	ErrDeviceIDRequired = errors.New("device id is required")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidPage      = errors.New("invalid page parameter")
	ErrInvalidPageSize  = errors.New("invalid page size parameter")

	// Not found
	ErrUserNotFound         = errors.New("user not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Conflict
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrWhatsAppAlreadyExists = errors.New("user with this whatsapp number already exists")
	ErrPlanCodeExists        = errors.New("plan code already exists")
	ErrActivationConflict    = errors.New("concurrent subscription activation")
	ErrRequestAlreadyPending = errors.New("device change request already pending")

	// Auth
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordNotSet     = errors.New("account has no password set")
	ErrNoActiveOtp        = errors.New("no active otp found")
	ErrOtpExpired         = errors.New("otp expired")
	ErrInvalidOtp         = errors.New("invalid otp")
	ErrDeviceMismatch     = errors.New("device mismatch")
	ErrNoMismatchDetected = errors.New("device id matches, no mismatch detected")
	ErrAccountBlocked     = errors.New("account blocked")

	// Payment
	ErrPaymentVerification  = errors.New("payment verification failed")
	ErrPaymentNotConfigured = errors.New("payment gateway not configured")

	// Dependency / gating
	ErrDatabaseError   = errors.New("database error")
	ErrProviderFailure = errors.New("external provider failure")
	ErrNoActivePlan    = errors.New("no active subscription")
	ErrUsageLimitHit   = errors.New("daily usage limit reached")
)
