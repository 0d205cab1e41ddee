package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/duxcare/portal/internal/shared/config"
)

// BrevoProvider delivers email through the Brevo transactional API.
type BrevoProvider struct {
	http *resty.Client
	cfg  config.EmailConfig
}

// NewBrevoProvider creates a Brevo-backed email provider.
func NewBrevoProvider(cfg config.EmailConfig) *BrevoProvider {
	httpClient := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(cfg.Timeout).
		SetHeader("api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &BrevoProvider{http: httpClient, cfg: cfg}
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendRequest struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}

// Send posts a transactional email.
func (p *BrevoProvider) Send(ctx context.Context, n *Notification) error {
	if p.cfg.APIKey == "" {
		return fmt.Errorf("email provider not configured")
	}
	if n.RecipientEmail == "" {
		return fmt.Errorf("no recipient email address")
	}

	var result brevoSendResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(brevoSendRequest{
			Sender:      brevoParty{Name: p.cfg.SenderName, Email: p.cfg.SenderEmail},
			To:          []brevoParty{{Name: n.RecipientName, Email: n.RecipientEmail}},
			Subject:     n.Subject,
			HTMLContent: n.HTMLBody,
		}).
		SetResult(&result).
		Post("/smtp/email")
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("email API returned %s", resp.Status())
	}

	fmt.Printf("Email sent to %s (%s), message id %s\n", n.RecipientName, n.RecipientEmail, result.MessageID)
	return nil
}

// MockEmailProvider records sent notifications for tests.
type MockEmailProvider struct {
	mu         sync.RWMutex
	sent       []*Notification
	failOnSend bool
}

// NewMockEmailProvider creates a mock provider.
func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

// Send records the notification, or fails when configured to.
func (p *MockEmailProvider) Send(ctx context.Context, n *Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failOnSend {
		return fmt.Errorf("mock send failure")
	}
	if n.RecipientEmail == "" {
		return fmt.Errorf("no recipient email address")
	}

	p.sent = append(p.sent, n)
	return nil
}

// SetFailOnSend sets whether Send should fail.
func (p *MockEmailProvider) SetFailOnSend(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failOnSend = fail
}

// Sent returns all recorded notifications.
func (p *MockEmailProvider) Sent() []*Notification {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*Notification, len(p.sent))
	copy(out, p.sent)
	return out
}
