package patient

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/duxcare/portal/internal/shared/errors"
)

// storeData is the durable snapshot document: three top-level arrays.
type storeData struct {
	Patients          []Patient          `json:"patients"`
	Alerts            []Alert            `json:"alerts"`
	NurseInstructions []NurseInstruction `json:"nurse_instructions"`
}

// Store is the single source of truth for patients, alerts and nurse
// instructions. State lives in memory behind one mutex; every mutation is
// followed by an atomic whole-file rewrite of the snapshot, so uniqueness
// checks and the insert they gate hold as one unit.
type Store struct {
	mu   sync.RWMutex
	path string
	data storeData
}

// Open loads the store from the snapshot file. A missing file initializes
// an empty skeleton; a file that exists but cannot be parsed is a fatal
// persistence failure.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Persistence(err, "failed to read patient data file")
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, errors.Persistence(err, fmt.Sprintf("patient data file %s is corrupt", path))
	}

	return s, nil
}

// NewMemory creates a store without a backing file, for tests.
func NewMemory() *Store {
	return &Store{}
}

// save rewrites the whole snapshot atomically: write to a temp file in the
// same directory, then rename over the old snapshot. Must be called with
// the write lock held.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}

	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return errors.Persistence(err, "failed to encode patient data")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Persistence(err, "failed to create data directory")
	}

	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return errors.Persistence(err, "failed to create temp snapshot")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Persistence(err, "failed to write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Persistence(err, "failed to close snapshot")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Persistence(err, "failed to replace snapshot")
	}

	return nil
}

// --- Patient operations ---

// AddPatient appends a new patient. PatientID, Name and Email must each be
// unique; on a collision the store is left unchanged.
func (s *Store) AddPatient(p Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data.Patients {
		switch {
		case existing.PatientID == p.PatientID:
			return errors.DuplicateIdentity("patient ID", p.PatientID)
		case existing.Name == p.Name:
			return errors.DuplicateIdentity("patient name", p.Name)
		case existing.Email == p.Email:
			return errors.DuplicateIdentity("email", p.Email)
		}
	}

	s.data.Patients = append(s.data.Patients, p)
	if err := s.save(); err != nil {
		s.data.Patients = s.data.Patients[:len(s.data.Patients)-1]
		return err
	}
	return nil
}

// Patients returns all patient records.
func (s *Store) Patients() []Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Patient, len(s.data.Patients))
	copy(out, s.data.Patients)
	return out
}

// GetPatientByName retrieves a patient by display name.
func (s *Store) GetPatientByName(name string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.data.Patients {
		if p.Name == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, errors.NotFound("patient", name)
}

// GetPatientByID retrieves a patient by patient ID.
func (s *Store) GetPatientByID(patientID string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.data.Patients {
		if p.PatientID == patientID {
			cp := p
			return &cp, nil
		}
	}
	return nil, errors.NotFound("patient", patientID)
}

// GetPatientByToken retrieves a patient by magic token. An expired token
// behaves exactly like an unknown one.
func (s *Store) GetPatientByToken(token string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if token == "" {
		return nil, errors.NotFound("patient", "")
	}

	for _, p := range s.data.Patients {
		if p.MagicToken == token && p.TokenValid(time.Now()) {
			cp := p
			return &cp, nil
		}
	}
	return nil, errors.NotFound("patient", token)
}

// Authenticate resolves a patient from ID and password. Both must match
// exactly; a wrong ID and a wrong password are indistinguishable to the
// caller. Empty credentials never match.
func (s *Store) Authenticate(patientID, password string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if patientID == "" || password == "" {
		return nil, errors.NotFound("patient", patientID)
	}

	for _, p := range s.data.Patients {
		if p.PatientID == patientID && p.Password == password {
			cp := p
			return &cp, nil
		}
	}
	return nil, errors.NotFound("patient", patientID)
}

// UpdatePatient replaces the record matched by name. A miss is a no-op.
func (s *Store) UpdatePatient(p Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Patients {
		if s.data.Patients[i].Name == p.Name {
			prev := s.data.Patients[i]
			s.data.Patients[i] = p
			if err := s.save(); err != nil {
				s.data.Patients[i] = prev
				return err
			}
			return nil
		}
	}
	return nil
}

// SetAgentID records the agent handle after a (possibly retried)
// provisioning call succeeded.
func (s *Store) SetAgentID(name, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Patients {
		if s.data.Patients[i].Name == name {
			prev := s.data.Patients[i].AgentID
			s.data.Patients[i].AgentID = agentID
			if err := s.save(); err != nil {
				s.data.Patients[i].AgentID = prev
				return err
			}
			return nil
		}
	}
	return errors.NotFound("patient", name)
}

// DeletePatient removes a patient and cascades deletion of alerts and
// nurse instructions referencing it by name. Reports whether a patient
// was found.
func (s *Store) DeletePatient(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.data

	patients := s.data.Patients[:0:0]
	for _, p := range s.data.Patients {
		if p.Name != name {
			patients = append(patients, p)
		}
	}
	if len(patients) == len(s.data.Patients) {
		return false, nil
	}
	s.data.Patients = patients

	alerts := s.data.Alerts[:0:0]
	for _, a := range s.data.Alerts {
		if a.PatientName != name {
			alerts = append(alerts, a)
		}
	}
	s.data.Alerts = alerts

	instructions := s.data.NurseInstructions[:0:0]
	for _, inst := range s.data.NurseInstructions {
		if inst.PatientName != name {
			instructions = append(instructions, inst)
		}
	}
	s.data.NurseInstructions = instructions

	if err := s.save(); err != nil {
		s.data = prev
		return false, err
	}
	return true, nil
}

// ListPatientsForLogin returns the login page entries. Patients without a
// provisioned agent are excluded.
func (s *Store) ListPatientsForLogin() []LoginEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []LoginEntry
	for _, p := range s.data.Patients {
		if p.AgentID != "" {
			entries = append(entries, LoginEntry{Name: p.Name, PatientID: p.PatientID})
		}
	}
	return entries
}

// --- Alert operations ---

// AddAlert appends a triage alert for a patient.
func (s *Store) AddAlert(patientName, message string, priority Priority) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Alerts = append(s.data.Alerts, Alert{
		PatientName: patientName,
		Message:     message,
		Priority:    priority,
		Timestamp:   time.Now(),
	})
	if err := s.save(); err != nil {
		s.data.Alerts = s.data.Alerts[:len(s.data.Alerts)-1]
		return err
	}
	return nil
}

// Alerts returns all alerts in insertion order.
func (s *Store) Alerts() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alert, len(s.data.Alerts))
	copy(out, s.data.Alerts)
	return out
}

// ClearAlerts removes all alerts.
func (s *Store) ClearAlerts() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.data.Alerts
	s.data.Alerts = nil
	if err := s.save(); err != nil {
		s.data.Alerts = prev
		return err
	}
	return nil
}

// RemoveAlert removes the alert at the given position.
func (s *Store) RemoveAlert(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.data.Alerts) {
		return errors.NotFound("alert", fmt.Sprintf("index %d", index))
	}

	prev := make([]Alert, len(s.data.Alerts))
	copy(prev, s.data.Alerts)

	s.data.Alerts = append(s.data.Alerts[:index], s.data.Alerts[index+1:]...)
	if err := s.save(); err != nil {
		s.data.Alerts = prev
		return err
	}
	return nil
}

// --- Nurse instruction operations ---

// AddNurseInstruction appends to the instruction log for a patient.
func (s *Store) AddNurseInstruction(patientName, instruction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.NurseInstructions = append(s.data.NurseInstructions, NurseInstruction{
		PatientName: patientName,
		Instruction: instruction,
		Timestamp:   time.Now(),
	})
	if err := s.save(); err != nil {
		s.data.NurseInstructions = s.data.NurseInstructions[:len(s.data.NurseInstructions)-1]
		return err
	}
	return nil
}

// NurseInstructions returns the instruction log for one patient.
func (s *Store) NurseInstructions(patientName string) []NurseInstruction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []NurseInstruction
	for _, inst := range s.data.NurseInstructions {
		if inst.PatientName == patientName {
			out = append(out, inst)
		}
	}
	return out
}

// --- Validation and statistics ---

// ValidatePatientID reports whether an ID is non-blank and unused.
// Pure check; does not mutate.
func (s *Store) ValidatePatientID(patientID string) bool {
	if strings.TrimSpace(patientID) == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.data.Patients {
		if p.PatientID == patientID {
			return false
		}
	}
	return true
}

// ValidateEmail reports whether an email is non-blank and unused.
func (s *Store) ValidateEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.data.Patients {
		if p.Email == email {
			return false
		}
	}
	return true
}

// Statistics returns dashboard counters.
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{
		TotalPatients:     len(s.data.Patients),
		TotalAlerts:       len(s.data.Alerts),
		TotalInstructions: len(s.data.NurseInstructions),
	}
	for _, p := range s.data.Patients {
		if p.AgentID != "" {
			stats.ActiveAgents++
		}
	}
	for _, a := range s.data.Alerts {
		if a.Priority == PriorityHigh {
			stats.HighPriorityAlerts++
		}
	}
	return stats
}
