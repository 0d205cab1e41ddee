// Package notify delivers portal email: the credentials welcome email at
// patient creation and plain notifications. Delivery failures never roll
// back the operation that triggered them; callers downgrade them to
// warnings and may retry.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duxcare/portal/internal/patient"
	"github.com/duxcare/portal/internal/shared/config"
)

// Service composes and sends portal email.
type Service struct {
	provider   EmailProvider
	summarizer SummaryGenerator
	fallback   StaticSummarizer
	cfg        config.EmailConfig
	baseURL    string
}

// NewService creates an email service. summarizer may be nil; the static
// template is then used for every welcome email.
func NewService(provider EmailProvider, summarizer SummaryGenerator, cfg config.EmailConfig, baseURL string) *Service {
	return &Service{
		provider:   provider,
		summarizer: summarizer,
		fallback:   StaticSummarizer{HospitalName: cfg.HospitalName},
		cfg:        cfg,
		baseURL:    baseURL,
	}
}

// SendCredentials delivers the welcome email with login credentials and
// the magic link. Implements patient.CredentialsSender.
func (s *Service) SendCredentials(ctx context.Context, p patient.Patient, password, magicToken string) error {
	summary := s.summary(ctx, p)
	magicLink := fmt.Sprintf("%s/magic-login?token=%s", s.baseURL, magicToken)

	n := &Notification{
		ID:             uuid.New().String(),
		RecipientEmail: p.Email,
		RecipientName:  p.Name,
		Subject:        fmt.Sprintf("Welcome to Your Healthcare Portal - %s", p.Name),
		HTMLBody:       welcomeEmailHTML(p, password, magicToken, magicLink, s.cfg.HospitalName, summary),
		Status:         StatusPending,
		CreatedAt:      time.Now(),
	}

	return s.deliver(ctx, n)
}

// SendNotification delivers a plain notification email.
func (s *Service) SendNotification(ctx context.Context, toEmail, toName, subject, message string) error {
	n := &Notification{
		ID:             uuid.New().String(),
		RecipientEmail: toEmail,
		RecipientName:  toName,
		Subject:        subject,
		HTMLBody:       simpleNotificationHTML(message),
		Status:         StatusPending,
		CreatedAt:      time.Now(),
	}

	return s.deliver(ctx, n)
}

func (s *Service) deliver(ctx context.Context, n *Notification) error {
	if err := s.provider.Send(ctx, n); err != nil {
		n.Status = StatusFailed
		n.ErrorMessage = err.Error()
		return err
	}
	now := time.Now()
	n.Status = StatusSent
	n.SentAt = &now
	return nil
}

// summary prefers the model-backed generator and falls back to the static
// template on any failure.
func (s *Service) summary(ctx context.Context, p patient.Patient) string {
	if s.summarizer != nil {
		if text, err := s.summarizer.Summary(ctx, p); err == nil {
			return text
		} else {
			fmt.Printf("Warning: summary generation failed for %s: %v\n", p.Name, err)
		}
	}
	text, _ := s.fallback.Summary(ctx, p)
	return text
}
