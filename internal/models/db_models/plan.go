package db_models

import (
	"gorm.io/datatypes"
)

// Plan is a purchasable subscription tier. Soft-deleted via IsActive so
// historical subscription rows keep a valid reference.
type Plan struct {
	BaseModel
	Title string
	// Uppercase, globally unique. Bulk imports match rows to plans by code.
	Code        string                      `gorm:"uniqueIndex"`
	Description datatypes.JSONSlice[string] // at most 6 bullet lines

	DurationInMonths int // 1, 3, 6 or 12

	// Prices in whole rupees; the gateway order amount is price * 100 paise.
	ActualPrice     int64
	DiscountedPrice int64

	ShowOfferBadge bool
	OfferText      string `gorm:"size:30"`
	OfferStartAt   *int64
	OfferEndAt     *int64

	IsActive bool `gorm:"default:true"`
}
