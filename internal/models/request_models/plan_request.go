package request_models

type CreatePlanRequest struct {
	Title            string   `json:"title" binding:"required"`
	Code             string   `json:"code" binding:"required"`
	Description      []string `json:"description" binding:"max=6"`
	DurationInMonths int      `json:"durationInMonths" binding:"required,oneof=1 3 6 12"`
	ActualPrice      int64    `json:"actualPrice" binding:"required,min=0"`
	DiscountedPrice  int64    `json:"discountedPrice" binding:"required,min=0"`
	ShowOfferBadge   bool     `json:"showOfferBadge"`
	OfferText        string   `json:"offerText" binding:"max=30"`
	OfferStartAt     *int64   `json:"offerStartAt"`
	OfferEndAt       *int64   `json:"offerEndAt"`
	IsActive         *bool    `json:"isActive"`
}

type UpdatePlanRequest struct {
	Title            *string   `json:"title"`
	Description      *[]string `json:"description" binding:"omitempty,max=6"`
	DurationInMonths *int      `json:"durationInMonths" binding:"omitempty,oneof=1 3 6 12"`
	ActualPrice      *int64    `json:"actualPrice" binding:"omitempty,min=0"`
	DiscountedPrice  *int64    `json:"discountedPrice" binding:"omitempty,min=0"`
	ShowOfferBadge   *bool     `json:"showOfferBadge"`
	OfferText        *string   `json:"offerText" binding:"omitempty,max=30"`
	OfferStartAt     *int64    `json:"offerStartAt"`
	OfferEndAt       *int64    `json:"offerEndAt"`
	IsActive         *bool     `json:"isActive"`
}
