package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/duxcare/portal/internal/shared/errors"
	"github.com/duxcare/portal/internal/shared/metrics"
)

// AgentProvisioner creates a conversational agent for a patient and
// returns its opaque handle.
type AgentProvisioner interface {
	Provision(ctx context.Context, p Patient) (string, error)
}

// CredentialsSender delivers login credentials to the patient out of band.
type CredentialsSender interface {
	SendCredentials(ctx context.Context, p Patient, password, magicToken string) error
}

// Service orchestrates patient registration. The record itself is the only
// hard requirement; agent provisioning and credentials delivery are
// downgraded to warnings when the collaborator fails, so both can be
// retried independently.
type Service struct {
	store       *Store
	provisioner AgentProvisioner
	sender      CredentialsSender
}

// NewService creates a patient registration service. Provisioner and sender
// may be nil, in which case the corresponding side effect is reported as
// not completed.
func NewService(store *Store, provisioner AgentProvisioner, sender CredentialsSender) *Service {
	return &Service{store: store, provisioner: provisioner, sender: sender}
}

// Create registers a new patient, issues credentials, and attempts the
// optional side effects.
func (s *Service) Create(ctx context.Context, req CreatePatientRequest) (*CreatePatientResult, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.PatientID) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, errors.BadRequest("patient name, ID, and email are required")
	}
	if !s.store.ValidatePatientID(req.PatientID) {
		return nil, errors.BadRequest("patient ID already exists or is invalid")
	}
	if !s.store.ValidateEmail(req.Email) {
		return nil, errors.BadRequest("email address already exists")
	}

	// Incomplete medication entries are dropped rather than rejected.
	var medications []Medication
	for _, med := range req.Medications {
		if med.Name != "" && med.Dosage != "" && med.Frequency != "" {
			medications = append(medications, med)
		}
	}

	p := Patient{
		Name:          req.Name,
		Email:         req.Email,
		PatientID:     req.PatientID,
		Conditions:    req.Conditions,
		Medications:   medications,
		Allergies:     req.Allergies,
		DischargePlan: req.DischargePlan,
	}

	password, err := p.GeneratePassword()
	if err != nil {
		return nil, errors.Internal(err)
	}
	magicToken, err := p.GenerateMagicToken()
	if err != nil {
		return nil, errors.Internal(err)
	}

	result := &CreatePatientResult{Password: password, MagicToken: magicToken}

	// Provisioning failure must not prevent the record from being stored;
	// the patient persists without an agent and provisioning can be retried.
	if s.provisioner != nil {
		agentID, err := s.provisioner.Provision(ctx, p)
		if err != nil {
			fmt.Printf("Warning: could not provision agent for %s: %v\n", p.Name, err)
			result.Warnings.AgentProvisioning = true
		} else {
			p.AgentID = agentID
			result.AgentID = agentID
		}
	} else {
		result.Warnings.AgentProvisioning = true
	}

	if err := s.store.AddPatient(p); err != nil {
		return nil, err
	}
	metrics.RecordPatientCreated(p.AgentID != "")

	// Delivery failure is likewise non-fatal: creation succeeded, the
	// caller sees email_sent=false and can resend.
	if s.sender != nil {
		if err := s.sender.SendCredentials(ctx, p, password, magicToken); err != nil {
			fmt.Printf("Warning: could not send credentials email to %s: %v\n", p.Email, err)
			result.Warnings.EmailDelivery = true
		} else {
			result.EmailSent = true
			metrics.RecordCredentialsEmail()
		}
	} else {
		result.Warnings.EmailDelivery = true
	}

	return result, nil
}

// Provision retries agent provisioning for an existing patient without one.
func (s *Service) Provision(ctx context.Context, name string) (string, error) {
	p, err := s.store.GetPatientByName(name)
	if err != nil {
		return "", err
	}
	if p.AgentID != "" {
		return p.AgentID, nil
	}
	if s.provisioner == nil {
		return "", errors.BadRequest("agent service not configured")
	}

	agentID, err := s.provisioner.Provision(ctx, *p)
	if err != nil {
		return "", errors.Wrap(err, "agent provisioning failed")
	}
	if err := s.store.SetAgentID(name, agentID); err != nil {
		return "", err
	}
	return agentID, nil
}

// Delete removes a patient and all dependent records. The external agent,
// if any, is left to the agent service's own lifecycle.
func (s *Service) Delete(ctx context.Context, name string) error {
	found, err := s.store.DeletePatient(name)
	if err != nil {
		return err
	}
	if !found {
		return errors.NotFound("patient", name)
	}
	return nil
}
