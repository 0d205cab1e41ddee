package notify

import (
	"context"
	"time"
)

// Status is the delivery state of a notification.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Notification is one outbound email.
type Notification struct {
	ID             string    `json:"id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	Subject        string    `json:"subject"`
	HTMLBody       string    `json:"html_body"`
	Status         Status    `json:"status"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}

// EmailProvider delivers a single notification.
type EmailProvider interface {
	Send(ctx context.Context, n *Notification) error
}
