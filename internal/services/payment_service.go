package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"subgate/internal/config"
	"subgate/pkg/utils"
)

// PaymentService fronts the Razorpay order API and owns signature
// verification for the confirm callbacks. Verification is pure: same inputs,
// same verdict, no gateway round trip.
type PaymentService interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (string, error)
	VerifySignature(orderID, paymentID, signature string) error
}

type paymentService struct {
	cfg    config.RazorpayConfig
	client *http.Client
	logger *zap.Logger
}

func NewPaymentService(cfg config.RazorpayConfig, logger *zap.Logger) PaymentService {
	return &paymentService{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// ComputeSignature returns hex(HMAC-SHA256(secret, orderID + "|" + paymentID)),
// the signature Razorpay attaches to a successful checkout.
func ComputeSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *paymentService) VerifySignature(orderID, paymentID, signature string) error {
	if p.cfg.KeySecret == "" {
		return utils.ErrPaymentNotConfigured
	}
	expected := ComputeSignature(p.cfg.KeySecret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return utils.ErrPaymentVerification
	}
	return nil
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (p *paymentService) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (string, error) {
	if p.cfg.KeyID == "" || p.cfg.KeySecret == "" {
		return "", utils.ErrPaymentNotConfigured
	}

	body, err := json.Marshal(orderRequest{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(p.cfg.KeyID + ":" + p.cfg.KeySecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("razorpay order create failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", utils.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrProviderFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("razorpay order create rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response_body", string(respBody)))
		return "", fmt.Errorf("%w: order create status %d", utils.ErrProviderFailure, resp.StatusCode)
	}

	var order orderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrProviderFailure, err)
	}

	return order.ID, nil
}
