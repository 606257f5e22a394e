package response_models

import "github.com/google/uuid"

type UserNotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	ReadAt    *int64    `json:"readAt"`
	CreatedAt int64     `json:"createdAt"`
}
