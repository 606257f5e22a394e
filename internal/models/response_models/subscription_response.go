package response_models

import "github.com/google/uuid"

type PlanResponse struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Code             string    `json:"code"`
	Description      []string  `json:"description"`
	DurationInMonths int       `json:"durationInMonths"`
	ActualPrice      int64     `json:"actualPrice"`
	DiscountedPrice  int64     `json:"discountedPrice"`
	ShowOfferBadge   bool      `json:"showOfferBadge"`
	OfferText        string    `json:"offerText,omitempty"`
	OfferStartAt     *int64    `json:"offerStartAt,omitempty"`
	OfferEndAt       *int64    `json:"offerEndAt,omitempty"`
	IsActive         bool      `json:"isActive"`
}

type OrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	PlanName string `json:"planName,omitempty"`
}

type ActivationResponse struct {
	Plan       string `json:"plan"`
	ExpiryDate int64  `json:"expiryDate"`
}

type MySubscriptionResponse struct {
	PlanName   string `json:"planName"`
	ExpiryDate int64  `json:"expiryDate"`
	DaysLeft   int    `json:"daysLeft"`
}
