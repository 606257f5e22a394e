package push

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

// Result reports one delivery attempt. InvalidToken marks tokens the provider
// has rejected as no longer registered, so callers can prune them.
type Result struct {
	Success      bool
	InvalidToken bool
	Err          error
}

type Sender interface {
	Send(ctx context.Context, token, title, body string) Result
}

type Config struct {
	BaseURL   string
	ServerKey string
	Timeout   time.Duration
}

type httpSender struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewHTTPSender talks to an FCM-shaped push endpoint. A zero Timeout defaults
// to 10s; sends past the deadline count as delivery failures.
func NewHTTPSender(cfg Config, logger *zap.Logger) Sender {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &httpSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type pushMessage struct {
	To           string            `json:"to"`
	Notification pushNotification  `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type pushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type pushResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

func (s *httpSender) Send(ctx context.Context, token, title, body string) Result {
	if s.cfg.BaseURL == "" || s.cfg.ServerKey == "" {
		return Result{Err: fmt.Errorf("push provider not configured")}
	}

	payload, err := json.Marshal(pushMessage{
		To:           token,
		Notification: pushNotification{Title: title, Body: body},
		Data:         map[string]string{"click_action": "FLUTTER_NOTIFICATION_CLICK"},
	})
	if err != nil {
		return Result{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(s.cfg.BaseURL, "/")+"/fcm/send", bytes.NewReader(payload))
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Authorization", "key="+s.cfg.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("push send failed", zap.Error(err))
		return Result{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("push send rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response_body", string(respBody)))
		return Result{Err: fmt.Errorf("push send: status %d", resp.StatusCode)}
	}

	var parsed pushResponse
	if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Failure > 0 {
		invalid := false
		for _, r := range parsed.Results {
			if r.Error == "NotRegistered" || r.Error == "InvalidRegistration" {
				invalid = true
			}
		}
		return Result{InvalidToken: invalid, Err: fmt.Errorf("push send: provider failure")}
	}

	return Result{Success: true}
}
