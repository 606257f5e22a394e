package db_models

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifInfo                 NotificationType = "INFO"
	NotifPromotion            NotificationType = "PROMOTION"
	NotifAlert                NotificationType = "ALERT"
	NotifSubscription         NotificationType = "SUBSCRIPTION"
	NotifSubscriptionActive   NotificationType = "SUBSCRIPTION_ACTIVATED"
	NotifSubscriptionExpiring NotificationType = "SUBSCRIPTION_EXPIRING"
	NotifSubscriptionExpired  NotificationType = "SUBSCRIPTION_EXPIRED"
)

type NotificationStatus string

const (
	NotifStatusDraft NotificationStatus = "DRAFT"
	NotifStatusSent  NotificationStatus = "SENT"
)

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "PENDING"
	DeliverySent    DeliveryStatus = "SENT"
	DeliveryFailed  DeliveryStatus = "FAILED"
)

// Notification is one broadcast message; delivery happens through per-user
// UserNotification rows fanned out at send time.
type Notification struct {
	BaseModel
	Title   string `gorm:"not null"`
	Message string `gorm:"not null"`
	Type    NotificationType   `gorm:"default:INFO;index"`
	Status  NotificationStatus `gorm:"default:DRAFT"`
}

type UserNotification struct {
	BaseModel
	UserID         uuid.UUID `gorm:"index"`
	NotificationID uuid.UUID `gorm:"index"`

	Status DeliveryStatus `gorm:"default:PENDING;index"`
	ReadAt *int64

	User         User         `gorm:"foreignKey:UserID"`
	Notification Notification `gorm:"foreignKey:NotificationID"`
}
