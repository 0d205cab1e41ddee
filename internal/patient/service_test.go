package patient

import (
	"context"
	"fmt"
	"testing"

	"github.com/duxcare/portal/internal/shared/errors"
)

// --- Mock collaborators ---

type mockProvisioner struct {
	agentID string
	fail    bool
	calls   int
}

func (m *mockProvisioner) Provision(ctx context.Context, p Patient) (string, error) {
	m.calls++
	if m.fail {
		return "", fmt.Errorf("agent service unavailable")
	}
	return m.agentID, nil
}

type mockSender struct {
	fail  bool
	calls int
}

func (m *mockSender) SendCredentials(ctx context.Context, p Patient, password, magicToken string) error {
	m.calls++
	if m.fail {
		return fmt.Errorf("email provider rejected message")
	}
	return nil
}

func newCreateRequest() CreatePatientRequest {
	return CreatePatientRequest{
		Name:      "Ann",
		PatientID: "P001",
		Email:     "ann@example.com",
		Medications: []Medication{
			{Name: "Lisinopril", Dosage: "10mg", Frequency: "daily"},
			{Name: "Incomplete"},
		},
	}
}

// --- Create ---

func TestCreatePatient(t *testing.T) {
	store := NewMemory()
	provisioner := &mockProvisioner{agentID: "agent-1"}
	sender := &mockSender{}
	svc := NewService(store, provisioner, sender)

	result, err := svc.Create(context.Background(), newCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if result.AgentID != "agent-1" {
		t.Errorf("Expected agent-1, got %s", result.AgentID)
	}
	if len(result.Password) != 12 {
		t.Errorf("Expected 12 character password, got %d", len(result.Password))
	}
	if result.MagicToken == "" {
		t.Error("Expected a magic token to be issued")
	}
	if !result.EmailSent {
		t.Error("Expected email to be reported as sent")
	}
	if result.Warnings.AgentProvisioning || result.Warnings.EmailDelivery {
		t.Errorf("Expected no warnings, got %+v", result.Warnings)
	}

	stored, err := store.GetPatientByName("Ann")
	if err != nil {
		t.Fatalf("Expected patient to be stored: %v", err)
	}
	if stored.AgentID != "agent-1" {
		t.Errorf("Expected stored agent ID agent-1, got %s", stored.AgentID)
	}
	// Incomplete medication entries are dropped, not rejected.
	if len(stored.Medications) != 1 || stored.Medications[0].Name != "Lisinopril" {
		t.Errorf("Expected only the complete medication, got %v", stored.Medications)
	}
}

func TestCreatePatientProvisionerFailure(t *testing.T) {
	store := NewMemory()
	sender := &mockSender{}
	svc := NewService(store, &mockProvisioner{fail: true}, sender)

	result, err := svc.Create(context.Background(), newCreateRequest())
	if err != nil {
		t.Fatalf("Expected creation to succeed despite provisioning failure, got %v", err)
	}

	if !result.Warnings.AgentProvisioning {
		t.Error("Expected agent provisioning warning")
	}
	if result.AgentID != "" {
		t.Errorf("Expected no agent ID, got %s", result.AgentID)
	}
	if !result.EmailSent {
		t.Error("Expected credentials email to still go out")
	}

	stored, err := store.GetPatientByName("Ann")
	if err != nil {
		t.Fatalf("Expected patient stored without an agent: %v", err)
	}
	if stored.AgentID != "" {
		t.Errorf("Expected empty agent ID, got %s", stored.AgentID)
	}
}

func TestCreatePatientEmailFailure(t *testing.T) {
	store := NewMemory()
	svc := NewService(store, &mockProvisioner{agentID: "agent-1"}, &mockSender{fail: true})

	result, err := svc.Create(context.Background(), newCreateRequest())
	if err != nil {
		t.Fatalf("Expected creation to succeed despite email failure, got %v", err)
	}

	if result.EmailSent {
		t.Error("Expected email_sent=false")
	}
	if !result.Warnings.EmailDelivery {
		t.Error("Expected email delivery warning")
	}
	if _, err := store.GetPatientByName("Ann"); err != nil {
		t.Errorf("Expected patient to be stored: %v", err)
	}
}

func TestCreatePatientValidation(t *testing.T) {
	store := NewMemory()
	seedPatient(t, store, "Ann", "P001", "ann@example.com")
	svc := NewService(store, &mockProvisioner{agentID: "agent-1"}, &mockSender{})

	tests := []struct {
		name string
		req  CreatePatientRequest
	}{
		{"missing name", CreatePatientRequest{PatientID: "P002", Email: "b@example.com"}},
		{"missing ID", CreatePatientRequest{Name: "Bob", Email: "b@example.com"}},
		{"missing email", CreatePatientRequest{Name: "Bob", PatientID: "P002"}},
		{"duplicate ID", CreatePatientRequest{Name: "Bob", PatientID: "P001", Email: "b@example.com"}},
		{"duplicate email", CreatePatientRequest{Name: "Bob", PatientID: "P002", Email: "ann@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.req); err == nil {
				t.Error("Expected creation to be rejected")
			}
		})
	}

	if got := len(store.Patients()); got != 1 {
		t.Errorf("Expected store unchanged with 1 patient, got %d", got)
	}
}

// --- Provision retry ---

func TestProvisionRetry(t *testing.T) {
	store := NewMemory()
	seedPatient(t, store, "Ann", "P001", "ann@example.com")
	provisioner := &mockProvisioner{agentID: "agent-2"}
	svc := NewService(store, provisioner, &mockSender{})

	agentID, err := svc.Provision(context.Background(), "Ann")
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	if agentID != "agent-2" {
		t.Errorf("Expected agent-2, got %s", agentID)
	}

	stored, _ := store.GetPatientByName("Ann")
	if stored.AgentID != "agent-2" {
		t.Errorf("Expected agent ID persisted, got %s", stored.AgentID)
	}

	// Already-provisioned patients return the existing handle without a call.
	agentID, err = svc.Provision(context.Background(), "Ann")
	if err != nil || agentID != "agent-2" {
		t.Errorf("Expected existing agent-2, got %s, %v", agentID, err)
	}
	if provisioner.calls != 1 {
		t.Errorf("Expected 1 provisioning call, got %d", provisioner.calls)
	}

	if _, err := svc.Provision(context.Background(), "Nobody"); !errors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

// --- Delete ---

func TestDeletePatientService(t *testing.T) {
	store := NewMemory()
	seedPatient(t, store, "Ann", "P001", "ann@example.com")
	svc := NewService(store, nil, nil)

	if err := svc.Delete(context.Background(), "Ann"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "Ann"); !errors.IsNotFound(err) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}
