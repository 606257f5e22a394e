package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TemplateSender delivers WhatsApp template messages. Implementations are
// best-effort transports: errors mean the message did not go out, nothing
// more.
type TemplateSender interface {
	SendTemplate(ctx context.Context, phone, templateName string, bodyParams []string, buttonURL string) error
}

type Config struct {
	BaseURL     string
	AccessToken string
	CountryCode string
	Timeout     time.Duration
}

type watiSender struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

func NewWatiSender(cfg Config, logger *zap.Logger) TemplateSender {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "91"
	}
	return &watiSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// NormalizePhone strips everything but digits and prepends the country code
// when it is missing.
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return digits
}

type templateParam struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type buttonParam struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type templateButton struct {
	Type       string        `json:"type"`
	SubType    string        `json:"sub_type"`
	Index      string        `json:"index"`
	Parameters []buttonParam `json:"parameters"`
}

type templatePayload struct {
	TemplateName  string           `json:"template_name"`
	BroadcastName string           `json:"broadcast_name"`
	Parameters    []templateParam  `json:"parameters"`
	Buttons       []templateButton `json:"buttons,omitempty"`
}

func (s *watiSender) SendTemplate(ctx context.Context, phone, templateName string, bodyParams []string, buttonURL string) error {
	if s.cfg.BaseURL == "" || s.cfg.AccessToken == "" {
		return fmt.Errorf("whatsapp provider not configured")
	}

	params := make([]templateParam, len(bodyParams))
	for i, v := range bodyParams {
		params[i] = templateParam{Name: fmt.Sprintf("%d", i+1), Value: v}
	}

	payload := templatePayload{
		TemplateName:  templateName,
		BroadcastName: templateName,
		Parameters:    params,
	}
	if buttonURL != "" {
		payload.Buttons = []templateButton{{
			Type:    "button",
			SubType: "url",
			Index:   "0",
			Parameters: []buttonParam{{
				Type: "text",
				Text: buttonURL,
			}},
		}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/sendTemplateMessage?whatsappNumber=%s",
		strings.TrimRight(s.cfg.BaseURL, "/"),
		NormalizePhone(phone, s.cfg.CountryCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	token := s.cfg.AccessToken
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("wati send failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		s.logger.Warn("wati send rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response_body", string(respBody)))
		return fmt.Errorf("wati send: status %d", resp.StatusCode)
	}

	return nil
}

// Template name as configured on the WATI dashboard.
const TemplateOtp = "magic_formula_otp_v3"
