package request_models

type CreateNotificationRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type" binding:"omitempty,oneof=INFO PROMOTION ALERT SUBSCRIPTION"`
}
