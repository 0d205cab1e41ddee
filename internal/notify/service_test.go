package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/duxcare/portal/internal/patient"
	"github.com/duxcare/portal/internal/shared/config"
)

func testEmailConfig() config.EmailConfig {
	return config.EmailConfig{
		SenderEmail:  "noreply@example.com",
		SenderName:   "Care Team",
		HospitalName: "General Hospital",
	}
}

func testPatient() patient.Patient {
	return patient.Patient{
		Name:      "Ann",
		PatientID: "P001",
		Email:     "ann@example.com",
		Medications: []patient.Medication{
			{Name: "Lisinopril", Dosage: "10mg", Frequency: "daily"},
		},
	}
}

func TestSendCredentials(t *testing.T) {
	provider := NewMockEmailProvider()
	svc := NewService(provider, nil, testEmailConfig(), "https://portal.example.com")

	err := svc.SendCredentials(context.Background(), testPatient(), "pass123!@#AB", "token-abc")
	if err != nil {
		t.Fatalf("SendCredentials failed: %v", err)
	}

	sent := provider.Sent()
	if len(sent) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(sent))
	}
	n := sent[0]

	if n.RecipientEmail != "ann@example.com" {
		t.Errorf("Unexpected recipient: %s", n.RecipientEmail)
	}
	if !strings.Contains(n.Subject, "Ann") {
		t.Errorf("Expected subject to name the patient, got %q", n.Subject)
	}
	if n.Status != StatusSent || n.SentAt == nil {
		t.Errorf("Expected notification marked sent, got status=%s", n.Status)
	}
	if !strings.Contains(n.HTMLBody, "pass123!@#AB") {
		t.Error("Expected password in email body")
	}
	if !strings.Contains(n.HTMLBody, "https://portal.example.com/magic-login?token=token-abc") {
		t.Error("Expected magic link in email body")
	}
}

func TestSendCredentialsProviderFailure(t *testing.T) {
	provider := NewMockEmailProvider()
	provider.SetFailOnSend(true)
	svc := NewService(provider, nil, testEmailConfig(), "https://portal.example.com")

	if err := svc.SendCredentials(context.Background(), testPatient(), "pw", "tok"); err == nil {
		t.Error("Expected provider failure to surface")
	}
	if got := len(provider.Sent()); got != 0 {
		t.Errorf("Expected nothing recorded, got %d", got)
	}
}

func TestSendNotification(t *testing.T) {
	provider := NewMockEmailProvider()
	svc := NewService(provider, nil, testEmailConfig(), "https://portal.example.com")

	err := svc.SendNotification(context.Background(), "ann@example.com", "Ann", "Checkup reminder", "Your checkup is on Friday")
	if err != nil {
		t.Fatalf("SendNotification failed: %v", err)
	}

	sent := provider.Sent()
	if len(sent) != 1 || sent[0].Subject != "Checkup reminder" {
		t.Errorf("Unexpected notifications: %v", sent)
	}
	if !strings.Contains(sent[0].HTMLBody, "Your checkup is on Friday") {
		t.Error("Expected message in email body")
	}
}

func TestStaticSummarizer(t *testing.T) {
	s := StaticSummarizer{HospitalName: "General Hospital"}

	text, err := s.Summary(context.Background(), testPatient())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if !strings.Contains(text, "Ann") {
		t.Error("Expected summary to address the patient")
	}
	if !strings.Contains(text, "General Hospital") {
		t.Error("Expected summary to name the hospital")
	}
}

type failingSummarizer struct{}

func (failingSummarizer) Summary(ctx context.Context, p patient.Patient) (string, error) {
	return "", context.DeadlineExceeded
}

func TestSummaryFallsBackOnFailure(t *testing.T) {
	provider := NewMockEmailProvider()
	svc := NewService(provider, failingSummarizer{}, testEmailConfig(), "https://portal.example.com")

	if err := svc.SendCredentials(context.Background(), testPatient(), "pw", "tok"); err != nil {
		t.Fatalf("SendCredentials failed: %v", err)
	}

	sent := provider.Sent()
	if len(sent) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(sent))
	}
	// Fallback template mentions the hospital care team.
	if !strings.Contains(sent[0].HTMLBody, "General Hospital") {
		t.Error("Expected fallback summary in email body")
	}
}
