package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"watertax-svc/internal/config"
	"watertax-svc/pkg/logger"
)

// SMSSender delivers one-time codes to a mobile number.
type SMSSender interface {
	SendOTP(ctx context.Context, mobile, code string) error
}

// GatewaySender posts messages to the municipal SMS gateway with retries.
type GatewaySender struct {
	client   *retryablehttp.Client
	baseURL  string
	apiKey   string
	senderID string
	logger   *logger.Logger
}

// NewGatewaySender creates an SMS sender for the configured gateway.
func NewGatewaySender(cfg config.SMSConfig, log *logger.Logger) *GatewaySender {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &GatewaySender{
		client:   client,
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		senderID: cfg.SenderID,
		logger:   log,
	}
}

type smsRequest struct {
	To       string `json:"to"`
	SenderID string `json:"sender_id"`
	Message  string `json:"message"`
}

// SendOTP posts the code to the gateway's send endpoint.
func (s *GatewaySender) SendOTP(ctx context.Context, mobile, code string) error {
	if s.baseURL == "" || s.apiKey == "" {
		return fmt.Errorf("sms gateway not configured")
	}

	payload := smsRequest{
		To:       mobile,
		SenderID: s.senderID,
		Message:  fmt.Sprintf("Your water tax portal login code is %s. Valid for 5 minutes.", code),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	s.logger.WithField("mobile", mobile).Info("OTP sms dispatched")
	return nil
}

// LogSender writes the code to the application log instead of sending it.
// Used in demo mode and local development.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender creates the demo sender.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

// SendOTP logs the code.
func (s *LogSender) SendOTP(_ context.Context, mobile, code string) error {
	s.logger.WithFields(map[string]interface{}{
		"mobile": mobile,
		"code":   code,
	}).Info("Demo mode: OTP not sent, logged only")
	return nil
}
