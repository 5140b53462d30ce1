package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

const (
	defaultSendGridBaseURL = "https://api.sendgrid.com"
	sendGridMailSendPath   = "/v3/mail/send"
	defaultSendTimeout     = 15 * time.Second
	defaultMaxRetries      = 3
)

// SendGridConfig configures the SendGrid Web API mailer.
type SendGridConfig struct {
	APIKey      string
	FromAddress string
	FromName    string
	BaseURL     string
	MaxRetries  int
}

// SendGridMailer delivers email through the SendGrid Web API. Transient
// failures (429 and 5xx) are retried with fibonacci backoff.
type SendGridMailer struct {
	client     *resty.Client
	from       sgAddress
	maxRetries uint64
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgMailRequest struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

// NewSendGridMailer creates a SendGrid mailer. APIKey and FromAddress are
// required.
func NewSendGridMailer(cfg *SendGridConfig) (*SendGridMailer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sendgrid config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid API key is required")
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSendGridBaseURL
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(defaultSendTimeout).
		SetHeader("Content-Type", "application/json")
	return &SendGridMailer{
		client:     client,
		from:       sgAddress{Email: cfg.FromAddress, Name: cfg.FromName},
		maxRetries: uint64(maxRetries),
	}, nil
}

// Send delivers the message, retrying transient SendGrid failures.
func (m *SendGridMailer) Send(ctx context.Context, msg *Message) error {
	log := logger.FromContext(ctx)
	payload := &sgMailRequest{
		Personalizations: []sgPersonalization{{To: []sgAddress{{Email: msg.To}}}},
		From:             m.from,
		Subject:          msg.Subject,
		Content: []sgContent{
			{Type: "text/plain", Value: msg.PlainBody},
			{Type: "text/html", Value: msg.HTMLBody},
		},
	}
	backoff := retry.WithMaxRetries(m.maxRetries, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := m.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post(sendGridMailSendPath)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("sendgrid request: %w", err))
		}
		return m.classifyResponse(resp)
	})
	if err != nil {
		log.Error("Failed to send email", "to", msg.To, "error", err)
		return err
	}
	log.Debug("Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// classifyResponse maps SendGrid status codes onto retryable or terminal
// coded errors.
func (m *SendGridMailer) classifyResponse(resp *resty.Response) error {
	code := resp.StatusCode()
	switch {
	case code == http.StatusOK || code == http.StatusCreated || code == http.StatusAccepted:
		return nil
	case code == http.StatusUnauthorized:
		return core.NewError(
			fmt.Errorf("email service authentication failed (status %d)", code),
			"MAIL_AUTH_FAILED", nil,
		)
	case code == http.StatusForbidden:
		return core.NewError(
			fmt.Errorf("email sender not verified (status %d)", code),
			"MAIL_SENDER_UNVERIFIED", nil,
		)
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return retry.RetryableError(fmt.Errorf("email service returned status %d", code))
	default:
		return core.NewError(
			fmt.Errorf("email service returned status %d", code),
			"MAIL_SEND_FAILED", map[string]any{"response": resp.String()},
		)
	}
}
