package response_models

import "github.com/google/uuid"

// UserResponse mirrors what the mobile client expects after any auth flow.
type UserResponse struct {
	ID                      uuid.UUID  `json:"_id"`
	Mobile                  *string    `json:"mobile,omitempty"`
	FullName                string     `json:"fullName"`
	Email                   *string    `json:"email"`
	WhatsApp                *string    `json:"whatsapp"`
	PushTokens              []string   `json:"firebaseTokens"`
	IsBlocked               bool       `json:"isBlocked"`
	ActivePlanID            *uuid.UUID `json:"activePlan"`
	PlanExpiry              *int64     `json:"planExpiry"`
	DeviceChangeRequested   bool       `json:"deviceChangeRequested"`
	DeviceChangeRequestedAt *int64     `json:"deviceChangeRequestedAt"`
	ProfilePic              string     `json:"profilePic,omitempty"`
}

type AuthResponse struct {
	IsRegistered bool         `json:"isRegistered"`
	AccessToken  string       `json:"accessToken"`
	User         UserResponse `json:"user"`
}
