package request_models

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FullName  string `json:"fullName"`
	WhatsApp  string `json:"whatsapp" binding:"required,msisdn"`
	PushToken string `json:"firebaseToken"`
	DeviceID  string `json:"deviceId" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Password string `json:"password" binding:"required"`
	DeviceID string `json:"deviceId"`
}

// MobileRegisterRequest serves the legacy mobile register-or-login path.
type MobileRegisterRequest struct {
	Mobile    string `json:"mobile" binding:"required"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	WhatsApp  string `json:"whatsapp"`
	PushToken string `json:"firebaseToken"`
	DeviceID  string `json:"deviceId"`
}

type SendOtpRequest struct {
	WhatsApp string `json:"whatsapp" binding:"required,msisdn"`
}

type VerifyOtpRequest struct {
	WhatsApp string `json:"whatsapp" binding:"required,msisdn"`
	Otp      string `json:"otp" binding:"required"`
	DeviceID string `json:"deviceId"`
}

type MismatchBlockRequest struct {
	Email    string `json:"email" binding:"required,email"`
	DeviceID string `json:"deviceId" binding:"required"`
}

type PenaltyOrderRequest struct {
	Email string `json:"email" binding:"required,email"`
	// Whole rupees. Defaults to the configured penalty amount when zero.
	Amount int64 `json:"amount"`
}

type PenaltyVerifyRequest struct {
	Email     string `json:"email" binding:"required,email"`
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}
