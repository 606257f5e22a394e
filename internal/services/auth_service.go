package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"subgate/internal/models/db_models"
	"subgate/internal/models/request_models"
	"subgate/internal/models/response_models"
	"subgate/internal/repositories"
	"subgate/pkg/presence"
	"subgate/pkg/utils"
	"subgate/pkg/whatsapp"
)

const (
	otpLength        = 6
	otpExpiryMinutes = 5
	otpMaxAttempts   = 5
)

type AuthService interface {
	Register(ctx context.Context, req request_models.RegisterRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error)
	// RegisterMobile is the legacy register-or-login upsert keyed on the
	// mobile number.
	RegisterMobile(ctx context.Context, req request_models.MobileRegisterRequest) (*response_models.AuthResponse, error)
	SendOtp(ctx context.Context, whatsappNumber string) error
	VerifyOtp(ctx context.Context, req request_models.VerifyOtpRequest) (*response_models.AuthResponse, error)
	Logout(ctx context.Context, userID string) error

	CreatePenaltyOrder(ctx context.Context, email string, amount int64) (*response_models.OrderResponse, error)
	VerifyPenaltyPayment(ctx context.Context, req request_models.PenaltyVerifyRequest) error
}

type authService struct {
	userRepo      repositories.UserRepository
	subRepo       repositories.SubscriptionRepository
	deviceService DeviceService
	payment       PaymentService
	wati          whatsapp.TemplateSender
	tracker       presence.Tracker
	penaltyAmount int64
	logger        *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepository,
	subRepo repositories.SubscriptionRepository,
	deviceService DeviceService,
	payment PaymentService,
	wati whatsapp.TemplateSender,
	tracker presence.Tracker,
	penaltyAmount int64,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		subRepo:       subRepo,
		deviceService: deviceService,
		payment:       payment,
		wati:          wati,
		tracker:       tracker,
		penaltyAmount: penaltyAmount,
		logger:        logger,
	}
}

// normalizeWhatsApp keeps digits only and bounds the length to a plausible
// international number.
func normalizeWhatsApp(value string) (string, error) {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 || len(digits) > 15 {
		return "", utils.ErrInvalidRequest
	}
	return digits, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (a *authService) buildAuthResponse(ctx context.Context, user *db_models.User, isRegistered bool) (*response_models.AuthResponse, error) {
	token, err := utils.CreateToken(user.ID, user.Role)
	if err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	var planExpiry *int64
	if user.ActivePlanID != nil {
		if sub, err := a.subRepo.FindActiveByUser(ctx, user.ID); err == nil && sub != nil {
			planExpiry = &sub.ExpiryDate
		}
	}

	if err := a.tracker.Add(ctx, user.ID.String()); err != nil {
		a.logger.Warn("presence add failed", zap.Error(err))
	}

	return &response_models.AuthResponse{
		IsRegistered: isRegistered,
		AccessToken:  token,
		User: response_models.UserResponse{
			ID:                      user.ID,
			Mobile:                  user.Mobile,
			FullName:                user.FullName,
			Email:                   user.Email,
			WhatsApp:                user.WhatsApp,
			PushTokens:              user.PushTokens,
			IsBlocked:               user.IsBlocked,
			ActivePlanID:            user.ActivePlanID,
			PlanExpiry:              planExpiry,
			DeviceChangeRequested:   user.DeviceChangeRequested,
			DeviceChangeRequestedAt: user.DeviceChangeRequestedAt,
			ProfilePic:              user.ProfilePic,
		},
	}, nil
}

func (a *authService) Register(ctx context.Context, req request_models.RegisterRequest) (*response_models.AuthResponse, error) {
	normalized, err := normalizeWhatsApp(req.WhatsApp)
	if err != nil {
		return nil, err
	}

	existing, err := a.userRepo.FindByEmailOrWhatsApp(ctx, strings.ToLower(req.Email), normalized)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		if existing.Email != nil && *existing.Email == strings.ToLower(req.Email) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, utils.ErrWhatsAppAlreadyExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	now := utils.NowUnixSeconds()
	user := &db_models.User{
		Email:           strPtr(strings.ToLower(req.Email)),
		WhatsApp:        &normalized,
		PasswordHash:    &hashed,
		FullName:        req.FullName,
		Role:            "user",
		DeviceID:        &req.DeviceID,
		LastDeviceLogin: &now,
		LastActivity:    &now,
	}
	if req.PushToken != "" {
		user.PushTokens = []string{req.PushToken}
	}

	if err := a.userRepo.Insert(ctx, user); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return a.buildAuthResponse(ctx, user, false)
}

func (a *authService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error) {
	if req.Email == "" && req.WhatsApp == "" {
		return nil, utils.ErrInvalidRequest
	}

	var user *db_models.User
	var err error
	if req.Email != "" {
		user, err = a.userRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	} else {
		user, err = a.userRepo.FindByWhatsApp(ctx, req.WhatsApp)
	}
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if user.PasswordHash == nil {
		return nil, utils.ErrPasswordNotSet
	}
	if err := utils.ComparePasswords(*user.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := a.deviceService.EvaluateBinding(user, req.DeviceID, utils.NowUnixSeconds()); err != nil {
		return nil, err
	}
	if err := a.userRepo.Update(ctx, user); err != nil {
		return nil, utils.ErrDatabaseError
	}

	// Block check comes after binding, independent of the device outcome.
	if user.IsBlocked {
		return nil, utils.ErrAccountBlocked
	}

	return a.buildAuthResponse(ctx, user, true)
}

func (a *authService) RegisterMobile(ctx context.Context, req request_models.MobileRegisterRequest) (*response_models.AuthResponse, error) {
	user, err := a.userRepo.FindByMobile(ctx, req.Mobile)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	isRegistered := user != nil
	now := utils.NowUnixSeconds()

	if user == nil {
		user = &db_models.User{
			Mobile:       &req.Mobile,
			FullName:     req.FullName,
			Email:        strPtr(strings.ToLower(req.Email)),
			WhatsApp:     strPtr(req.WhatsApp),
			Role:         "user",
			LastActivity: &now,
		}
		if req.PushToken != "" {
			user.PushTokens = []string{req.PushToken}
		}
		if req.DeviceID != "" {
			user.DeviceID = &req.DeviceID
			user.LastDeviceLogin = &now
		}
		if err := a.userRepo.Insert(ctx, user); err != nil {
			return nil, utils.ErrDatabaseError
		}
	} else {
		if req.FullName != "" {
			user.FullName = req.FullName
		}
		if req.Email != "" {
			user.Email = strPtr(strings.ToLower(req.Email))
		}
		if req.WhatsApp != "" {
			user.WhatsApp = &req.WhatsApp
		}
		if req.PushToken != "" {
			user.PushTokens = appendToken(user.PushTokens, req.PushToken)
		}

		if req.DeviceID != "" {
			if err := a.deviceService.EvaluateBinding(user, req.DeviceID, now); err != nil {
				return nil, err
			}
		}
		if user.LastActivity == nil {
			user.LastActivity = &now
		}

		if err := a.userRepo.Update(ctx, user); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	if user.IsBlocked {
		return nil, utils.ErrAccountBlocked
	}

	return a.buildAuthResponse(ctx, user, isRegistered)
}

func appendToken(tokens []string, token string) []string {
	for _, t := range tokens {
		if t == token {
			return tokens
		}
	}
	return append(tokens, token)
}

func (a *authService) SendOtp(ctx context.Context, whatsappNumber string) error {
	normalized, err := normalizeWhatsApp(whatsappNumber)
	if err != nil {
		return err
	}

	user, err := a.userRepo.FindByWhatsApp(ctx, normalized)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		// OTP-only accounts are created on first contact and completed on
		// verification.
		user = &db_models.User{WhatsApp: &normalized, Role: "user"}
		if err := a.userRepo.Insert(ctx, user); err != nil {
			return utils.ErrDatabaseError
		}
	}

	code, err := utils.GenerateOtpCode(otpLength)
	if err != nil {
		return utils.ErrDatabaseError
	}

	if err := a.wati.SendTemplate(ctx, normalized, whatsapp.TemplateOtp, []string{code}, ""); err != nil {
		a.logger.Warn("otp send failed",
			zap.String("whatsapp", utils.MaskNumber(normalized)),
			zap.Error(err))
		return fmt.Errorf("%w: otp send", utils.ErrProviderFailure)
	}

	// Store the challenge only after the provider accepted the message.
	hash, err := utils.HashPassword(code)
	if err != nil {
		return utils.ErrDatabaseError
	}
	expiresAt := time.Now().Add(otpExpiryMinutes * time.Minute).Unix()
	user.OtpCodeHash = &hash
	user.OtpExpiresAt = &expiresAt
	user.OtpAttempts = 0

	if err := a.userRepo.Update(ctx, user); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *authService) VerifyOtp(ctx context.Context, req request_models.VerifyOtpRequest) (*response_models.AuthResponse, error) {
	normalized, err := normalizeWhatsApp(req.WhatsApp)
	if err != nil {
		return nil, err
	}

	user, err := a.userRepo.FindByWhatsApp(ctx, normalized)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil || user.OtpCodeHash == nil {
		return nil, utils.ErrNoActiveOtp
	}
	if user.OtpExpiresAt == nil || *user.OtpExpiresAt < time.Now().Unix() {
		return nil, utils.ErrOtpExpired
	}
	if user.OtpAttempts >= otpMaxAttempts {
		return nil, utils.ErrNoActiveOtp
	}

	if err := utils.ComparePasswords(*user.OtpCodeHash, req.Otp); err != nil {
		user.OtpAttempts++
		if err := a.userRepo.Update(ctx, user); err != nil {
			return nil, utils.ErrDatabaseError
		}
		return nil, utils.ErrInvalidOtp
	}

	// Same device policy as password login, except a missing device id on an
	// unbound account just defers binding to the next login.
	now := utils.NowUnixSeconds()
	if user.DeviceID != nil && *user.DeviceID != "" {
		if req.DeviceID == "" || *user.DeviceID != req.DeviceID {
			return nil, utils.ErrDeviceMismatch
		}
		user.LastDeviceLogin = &now
		user.LastActivity = &now
	} else if req.DeviceID != "" {
		user.DeviceID = &req.DeviceID
		user.LastDeviceLogin = &now
		user.LastActivity = &now
	}

	user.OtpCodeHash = nil
	user.OtpExpiresAt = nil
	user.OtpAttempts = 0

	if err := a.userRepo.Update(ctx, user); err != nil {
		return nil, utils.ErrDatabaseError
	}

	if user.IsBlocked {
		return nil, utils.ErrAccountBlocked
	}

	return a.buildAuthResponse(ctx, user, true)
}

func (a *authService) Logout(ctx context.Context, userID string) error {
	if err := a.tracker.Remove(ctx, userID); err != nil {
		a.logger.Warn("presence remove failed", zap.Error(err))
	}
	return nil
}

func (a *authService) CreatePenaltyOrder(ctx context.Context, email string, amount int64) (*response_models.OrderResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	if amount <= 0 {
		amount = a.penaltyAmount
	}
	amountPaise := amount * 100

	id := user.ID.String()
	receipt := fmt.Sprintf("penalty_%s_%d", id[len(id)-6:], time.Now().Unix()%1_000_000)
	orderID, err := a.payment.CreateOrder(ctx, amountPaise, "INR", receipt, map[string]string{
		"userId": id,
		"email":  strings.ToLower(email),
		"type":   "penalty",
	})
	if err != nil {
		return nil, err
	}

	return &response_models.OrderResponse{
		OrderID:  orderID,
		Amount:   amountPaise,
		Currency: "INR",
	}, nil
}

func (a *authService) VerifyPenaltyPayment(ctx context.Context, req request_models.PenaltyVerifyRequest) error {
	if err := a.payment.VerifySignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		return err
	}

	user, err := a.userRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrUserNotFound
	}

	return a.deviceService.ResetDeviceBinding(ctx, user.ID, ResetByPenaltyPayment)
}
