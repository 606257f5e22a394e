package db_models

import (
	"github.com/google/uuid"
)

const PaymentProviderRazorpay = "razorpay"

// Subscription is one purchase/assignment instance. The partial unique index
// on (user_id) WHERE is_active enforces at most one active row per user; the
// database constraint, not application locking, is what arbitrates concurrent
// activations.
type Subscription struct {
	BaseModel
	UserID uuid.UUID `gorm:"index;uniqueIndex:idx_subscriptions_one_active,where:is_active"`
	PlanID uuid.UUID `gorm:"index"`

	StartDate  int64 `gorm:"not null"`
	ExpiryDate int64 `gorm:"not null;index"`
	IsActive   bool  `gorm:"default:true"`

	PaymentID       *string
	PaymentProvider *string

	// Daily feature usage counter, reset at the next midnight.
	UsageCount   int `gorm:"default:0"`
	UsageResetAt int64

	// Idempotence guard for the expiry sweep: a row is expired and notified
	// at most once even if the sweep overlaps itself.
	ExpiredNotificationSent bool `gorm:"default:false"`

	// Set by the reminder sweep when SWEEP_REMIND_ONCE is enabled.
	RemindedAt *int64

	User User `gorm:"foreignKey:UserID"`
	Plan Plan `gorm:"foreignKey:PlanID"`
}
