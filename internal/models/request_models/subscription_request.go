package request_models

type SubscribeRequest struct {
	PlanID string `json:"planId" binding:"required,uuid"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
	PlanID    string `json:"planId" binding:"required,uuid"`
}

type AssignPlanRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	PlanID string `json:"planId" binding:"required,uuid"`
}
