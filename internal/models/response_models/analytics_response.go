package response_models

import "github.com/google/uuid"

type UserAnalytics struct {
	TotalUsers        int64 `json:"totalUsers"`
	LiveUsers         int64 `json:"liveUsers"`
	SubscribedUsers   int64 `json:"subscribedUsers"`
	UnsubscribedUsers int64 `json:"unsubscribedUsers"`
}

type PlanCount struct {
	PlanID uuid.UUID `json:"planId"`
	Title  string    `json:"title"`
	Count  int64     `json:"count"`
}

type SubscriptionAnalytics struct {
	TotalSubscribedUsers int64       `json:"totalSubscribedUsers"`
	PlanWise             []PlanCount `json:"planWise"`
}

// DeviceConflict is one row of the admin device-conflict report: either a
// device id shared by several accounts or a pending change request.
type DeviceConflict struct {
	DeviceID    string           `json:"deviceId,omitempty"`
	Kind        string           `json:"kind"` // "shared_device" | "change_request"
	Users       []ConflictedUser `json:"users"`
	RequestedAt *int64           `json:"requestedAt,omitempty"`
}

type ConflictedUser struct {
	ID              uuid.UUID `json:"_id"`
	FullName        string    `json:"fullName"`
	Email           *string   `json:"email"`
	Mobile          *string   `json:"mobile"`
	DeviceID        *string   `json:"deviceId"`
	LastDeviceLogin *int64    `json:"lastDeviceLogin"`
	IsBlocked       bool      `json:"isBlocked"`
}
