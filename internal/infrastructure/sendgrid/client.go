package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const mailSendPath = "/v3/mail/send"

// ErrMisconfigured indicates the provider API key or sender identity is
// absent. Checked before any network call; distinct from delivery failure.
var ErrMisconfigured = errors.New("sendgrid: api key or sender identity not configured")

// ErrCircuitOpen indicates the breaker is rejecting calls after repeated
// provider failures.
var ErrCircuitOpen = errors.New("sendgrid: circuit breaker open")

// DeliveryError indicates the provider rejected the message or was unreachable.
type DeliveryError struct {
	StatusCode int    // 0 for transport-level failures
	Body       string // provider error body, logged but never shown to callers
	cause      error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("sendgrid: provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("sendgrid: request failed: %v", e.cause)
}

func (e *DeliveryError) Unwrap() error { return e.cause }

// Client interface for the transactional email provider
type Client interface {
	// Send hands one HTML message to the provider. Success means a
	// provider-acknowledged 2xx; no retries are performed.
	Send(ctx context.Context, to, subject, htmlBody string) error
	// HealthCheck reports whether the client considers the provider usable
	HealthCheck(ctx context.Context) error
	// GetCircuitBreaker returns the circuit breaker for metrics
	GetCircuitBreaker() *CircuitBreaker
}

// Config contains the configuration for the SendGrid client
type Config struct {
	APIKey         string        // SendGrid API key (Bearer token)
	SenderEmail    string        // Verified sender address
	SenderName     string        // Display name for the sender
	BaseURL        string        // Provider base URL (overridable for tests)
	RequestTimeout time.Duration // Per-request timeout
}

type client struct {
	config         Config
	httpClient     *http.Client
	circuitBreaker *CircuitBreaker
	logger         *zap.Logger
}

// NewClient creates a new SendGrid mail-send client
func NewClient(cfg Config, logger *zap.Logger) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		OnStateChange: func(from, to CircuitState) {
			logger.Warn("sendgrid circuit breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &client{
		config:         cfg,
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout},
		circuitBreaker: cb,
		logger:         logger,
	}
}

// mailRequest is the SendGrid v3 mail/send payload
type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c *client) Send(ctx context.Context, to, subject, htmlBody string) error {
	if c.config.APIKey == "" || c.config.SenderEmail == "" {
		return ErrMisconfigured
	}

	if !c.circuitBreaker.Allow() {
		return ErrCircuitOpen
	}

	payload := mailRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to}}}},
		From:             emailAddress{Email: c.config.SenderEmail, Name: c.config.SenderName},
		Subject:          subject,
		Content:          []content{{Type: "text/html", Value: htmlBody}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sendgrid: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+mailSendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.circuitBreaker.RecordFailure()
		c.logger.Error("sendgrid request failed",
			zap.String("to", to),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return &DeliveryError{cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.circuitBreaker.RecordFailure()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("sendgrid rejected message",
			zap.String("to", to),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	c.circuitBreaker.RecordSuccess()
	c.logger.Info("sendgrid accepted message",
		zap.String("to", to),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (c *client) HealthCheck(ctx context.Context) error {
	if c.config.APIKey == "" || c.config.SenderEmail == "" {
		return ErrMisconfigured
	}
	if c.circuitBreaker.State() == StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

func (c *client) GetCircuitBreaker() *CircuitBreaker {
	return c.circuitBreaker
}
