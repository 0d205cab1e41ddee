package patient

import (
	"time"
)

// Priority defines the urgency of a triage alert
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Medication is an immutable prescription entry. It has no identity of
// its own; it lives inside a patient record.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// Patient is a post-discharge patient record. PatientID, Name and Email
// are each unique across the store. AgentID is empty until the external
// conversational agent has been provisioned; without it the patient is
// excluded from the login list and cannot message.
type Patient struct {
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	PatientID     string       `json:"patient_id"`
	Conditions    []string     `json:"conditions"`
	Medications   []Medication `json:"medications"`
	Allergies     []string     `json:"allergies"`
	DischargePlan string       `json:"discharge_plan"`
	AgentID       string       `json:"agent_id,omitempty"`
	Password      string       `json:"password,omitempty"`
	MagicToken    string       `json:"magic_token,omitempty"`
	TokenExpires  *time.Time   `json:"token_expires,omitempty"`
}

// Alert is a nurse-facing triage notification referencing a patient by name.
type Alert struct {
	PatientName string    `json:"patient_name"`
	Message     string    `json:"message"`
	Priority    Priority  `json:"priority"`
	Timestamp   time.Time `json:"timestamp"`
}

// NurseInstruction is one entry in the append-only log of care directives
// a nurse sent to a patient's agent.
type NurseInstruction struct {
	PatientName string    `json:"patient_name"`
	Instruction string    `json:"instruction"`
	Timestamp   time.Time `json:"timestamp"`
}

// LoginEntry is the reduced patient view shown on the login page.
// Only patients with a provisioned agent appear.
type LoginEntry struct {
	Name      string `json:"name"`
	PatientID string `json:"patient_id"`
}

// Statistics summarizes the store contents for the nurse dashboard.
type Statistics struct {
	TotalPatients      int `json:"total_patients"`
	ActiveAgents       int `json:"active_agents"`
	TotalAlerts        int `json:"total_alerts"`
	HighPriorityAlerts int `json:"high_priority_alerts"`
	TotalInstructions  int `json:"total_instructions"`
}

// CreatePatientRequest is the request to register a new patient.
type CreatePatientRequest struct {
	Name          string       `json:"name"`
	PatientID     string       `json:"patient_id"`
	Email         string       `json:"email"`
	Conditions    []string     `json:"conditions"`
	Medications   []Medication `json:"medications"`
	Allergies     []string     `json:"allergies"`
	DischargePlan string       `json:"discharge_plan"`
}

// CreatePatientResult reports a completed registration. The record itself
// is always stored; AgentProvisioned and EmailSent flag the optional side
// effects so the caller can retry whichever one failed.
type CreatePatientResult struct {
	AgentID    string   `json:"agent_id,omitempty"`
	Password   string   `json:"password"`
	MagicToken string   `json:"magic_token"`
	EmailSent  bool     `json:"email_sent"`
	Warnings   Warnings `json:"warnings"`
}

// Warnings marks side effects of patient creation that did not complete.
type Warnings struct {
	AgentProvisioning bool `json:"agent_provisioning"`
	EmailDelivery     bool `json:"email_delivery"`
}
