// Package chat handles the conversation between a patient and their care
// agent: relaying messages, scanning them for concerning content, and
// normalizing agent output for display.
package chat

import (
	"context"
	"fmt"

	"github.com/duxcare/portal/internal/agent"
	"github.com/duxcare/portal/internal/patient"
	"github.com/duxcare/portal/internal/shared/errors"
	"github.com/duxcare/portal/internal/shared/metrics"
	"github.com/duxcare/portal/internal/transcript"
	"github.com/duxcare/portal/internal/triage"
)

const historyLimit = 20

// AgentClient is the subset of the agent API the chat flow needs.
type AgentClient interface {
	SendMessage(ctx context.Context, agentID, patientName, message string) (agent.SendResponse, error)
	Messages(ctx context.Context, agentID string, limit int) ([]agent.Message, error)
	RefreshContext(ctx context.Context, agentID string, p patient.Patient) error
}

// Service coordinates messaging between patients, their agents and the
// nurse alert queue.
type Service struct {
	store  *patient.Store
	agents AgentClient
}

// NewService creates a chat service.
func NewService(store *patient.Store, agents AgentClient) *Service {
	return &Service{store: store, agents: agents}
}

// SendPatientMessage relays a patient message to their agent and returns
// the filtered response. The message is scanned for concerning content
// before sending; detected alerts go to the nurse queue but never block
// the conversation.
func (s *Service) SendPatientMessage(ctx context.Context, patientID, message string) (transcript.FilteredResponse, error) {
	if message == "" {
		return transcript.FilteredResponse{}, errors.BadRequest("message is required")
	}

	p, err := s.store.GetPatientByID(patientID)
	if err != nil {
		return transcript.FilteredResponse{}, err
	}
	if p.AgentID == "" {
		return transcript.FilteredResponse{}, errors.BadRequest("no care agent assigned to this patient")
	}

	s.raiseAlerts(p.Name, message)
	s.refreshIfFirstContact(ctx, p)

	resp, err := s.agents.SendMessage(ctx, p.AgentID, p.Name, message)
	if err != nil {
		return transcript.FilteredResponse{}, errors.Wrap(err, "agent did not respond")
	}

	return transcript.FilterResponse(resp), nil
}

// History returns the patient's conversation normalized for display.
func (s *Service) History(ctx context.Context, patientID string) ([]transcript.DisplayMessage, error) {
	p, err := s.store.GetPatientByID(patientID)
	if err != nil {
		return nil, err
	}
	if p.AgentID == "" {
		return []transcript.DisplayMessage{}, nil
	}

	msgs, err := s.agents.Messages(ctx, p.AgentID, historyLimit)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch conversation history")
	}

	return transcript.FormatForDisplay(msgs), nil
}

// SendInstruction relays a nurse instruction to the patient's agent as a
// system message and records it.
func (s *Service) SendInstruction(ctx context.Context, patientName, instruction string) (transcript.FilteredResponse, error) {
	if instruction == "" {
		return transcript.FilteredResponse{}, errors.BadRequest("instruction is required")
	}

	p, err := s.store.GetPatientByName(patientName)
	if err != nil {
		return transcript.FilteredResponse{}, err
	}
	if p.AgentID == "" {
		return transcript.FilteredResponse{}, errors.BadRequest("no care agent assigned to this patient")
	}

	message := agent.NurseInstructionPrefix + " " + instruction
	resp, err := s.agents.SendMessage(ctx, p.AgentID, p.Name, message)
	if err != nil {
		return transcript.FilteredResponse{}, errors.Wrap(err, "agent did not respond")
	}

	if err := s.store.AddNurseInstruction(p.Name, instruction); err != nil {
		fmt.Printf("Warning: could not record nurse instruction for %s: %v\n", p.Name, err)
	}

	return transcript.FilterResponse(resp), nil
}

// Instructions returns the instructions recorded for a patient.
func (s *Service) Instructions(patientName string) []patient.NurseInstruction {
	return s.store.NurseInstructions(patientName)
}

// raiseAlerts scans a patient message and queues an alert when it matches
// a concerning pattern. Alert persistence failures are downgraded so the
// patient's message still reaches the agent.
func (s *Service) raiseAlerts(patientName, message string) {
	det, ok := triage.Detect(message)
	if !ok {
		return
	}

	if err := s.store.AddAlert(patientName, det.Message, det.Priority); err != nil {
		fmt.Printf("Warning: could not record alert for %s: %v\n", patientName, err)
		return
	}
	metrics.RecordAlert(string(det.Priority))
}

// refreshIfFirstContact pushes current record context to the agent before
// the patient's first message, so the conversation starts informed.
func (s *Service) refreshIfFirstContact(ctx context.Context, p *patient.Patient) {
	msgs, err := s.agents.Messages(ctx, p.AgentID, historyLimit)
	if err != nil {
		fmt.Printf("Warning: could not check conversation history for %s: %v\n", p.Name, err)
		return
	}

	for _, m := range msgs {
		if m.MessageType == agent.MessageTypeUser {
			return
		}
	}

	if err := s.agents.RefreshContext(ctx, p.AgentID, *p); err != nil {
		fmt.Printf("Warning: could not refresh agent context for %s: %v\n", p.Name, err)
	}
}
