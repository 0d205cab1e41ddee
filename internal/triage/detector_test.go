package triage

import (
	"testing"

	"github.com/duxcare/portal/internal/patient"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantOK      bool
		wantPrio    patient.Priority
		wantMessage string
	}{
		{
			name:        "contact request",
			message:     "Please tell the nurse I need my prescription refilled",
			wantOK:      true,
			wantPrio:    patient.PriorityHigh,
			wantMessage: "Patient requested nurse contact: Please tell the nurse I need my prescription refilled",
		},
		{
			name:        "symptom keyword",
			message:     "I have chest pain this morning",
			wantOK:      true,
			wantPrio:    patient.PriorityMedium,
			wantMessage: "Concerning symptoms reported: I have chest pain this morning",
		},
		{
			name:        "contact request outranks symptoms",
			message:     "I feel dizzy, please notify the nurse",
			wantOK:      true,
			wantPrio:    patient.PriorityHigh,
			wantMessage: "Patient requested nurse contact: I feel dizzy, please notify the nurse",
		},
		{
			name:        "case insensitive match, original casing kept",
			message:     "LET THE NURSE KNOW I am fine",
			wantOK:      true,
			wantPrio:    patient.PriorityHigh,
			wantMessage: "Patient requested nurse contact: LET THE NURSE KNOW I am fine",
		},
		{
			name:        "phrase embedded in sentence",
			message:     "yesterday my knee hurt a little",
			wantOK:      true,
			wantPrio:    patient.PriorityMedium,
			wantMessage: "Concerning symptoms reported: yesterday my knee hurt a little",
		},
		{
			name:        "breathing and dizziness",
			message:     "I can't breathe and I feel dizzy",
			wantOK:      true,
			wantPrio:    patient.PriorityMedium,
			wantMessage: "Concerning symptoms reported: I can't breathe and I feel dizzy",
		},
		{
			name:        "contact request after a fall",
			message:     "please notify the nurse, I fell",
			wantOK:      true,
			wantPrio:    patient.PriorityHigh,
			wantMessage: "Patient requested nurse contact: please notify the nurse, I fell",
		},
		{
			name:    "benign message",
			message: "Good morning, I slept well",
			wantOK:  false,
		},
		{
			name:    "empty message",
			message: "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det, ok := Detect(tt.message)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if !ok {
				return
			}
			if det.Priority != tt.wantPrio {
				t.Errorf("Expected priority %s, got %s", tt.wantPrio, det.Priority)
			}
			if det.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, det.Message)
			}
		})
	}
}

func TestDetectSingleAlertPerMessage(t *testing.T) {
	// Multiple symptom keywords still yield exactly one detection.
	det, ok := Detect("I have severe pain and nausea and feel terrible")
	if !ok {
		t.Fatal("Expected a detection")
	}
	if det.Priority != patient.PriorityMedium {
		t.Errorf("Expected medium priority, got %s", det.Priority)
	}
}
