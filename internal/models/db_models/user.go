package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is one end-user identity. Email and WhatsApp are the primary identity
// channels (unique when present); Mobile is the legacy key kept for the old
// register-or-login path.
type User struct {
	BaseModel
	Mobile   *string `gorm:"uniqueIndex"`
	FullName string
	Email    *string `gorm:"uniqueIndex"`
	WhatsApp *string `gorm:"uniqueIndex"`

	// Nil for OTP-only accounts.
	PasswordHash *string

	Role       string `gorm:"default:user"`
	ProfilePic string

	PushTokens datatypes.JSONSlice[string]

	IsBlocked bool `gorm:"default:false"`

	// Device binding. DeviceID stays nil until the first successful
	// login/registration; once set, every login must present it.
	DeviceID                *string `gorm:"index"`
	LastDeviceLogin         *int64
	DeviceChangeRequested   bool `gorm:"default:false"`
	DeviceChangeRequestedAt *int64

	LastActivity *int64

	// Denormalized pointer to the active subscription row. The subscription
	// store's is_active flag is the source of truth; this is a projection
	// maintained only by the lifecycle manager and the expiry sweep.
	ActivePlanID *uuid.UUID `gorm:"type:uuid"`

	// WhatsApp OTP challenge.
	OtpCodeHash  *string
	OtpExpiresAt *int64
	OtpAttempts  int `gorm:"default:0"`
}
