package agent

import (
	"strings"
	"testing"

	"github.com/duxcare/portal/internal/patient"
)

func TestAgentName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Ann", "prof-dux-ann"},
		{"Mary Jane Watson", "prof-dux-mary-jane-watson"},
		{"BOB", "prof-dux-bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agentName(patient.Patient{Name: tt.name})
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestMemoryBlocks(t *testing.T) {
	p := patient.Patient{
		Name:       "Ann",
		PatientID:  "P001",
		Email:      "ann@example.com",
		Conditions: []string{"hypertension"},
		Allergies:  []string{"penicillin"},
		Medications: []patient.Medication{
			{Name: "Lisinopril", Dosage: "10mg", Frequency: "daily"},
		},
	}

	persona := personaBlock(p)
	if persona.Label != "persona" {
		t.Errorf("Expected persona label, got %s", persona.Label)
	}
	if !strings.Contains(persona.Value, "Ann") || !strings.Contains(persona.Value, "P001") {
		t.Error("Expected persona block to reference the patient")
	}

	profile := profileBlock(p)
	if profile.Label != "human" {
		t.Errorf("Expected human label, got %s", profile.Label)
	}
	for _, want := range []string{"hypertension", "penicillin", "Lisinopril: 10mg daily"} {
		if !strings.Contains(profile.Value, want) {
			t.Errorf("Expected profile block to contain %q", want)
		}
	}
}

func TestMemoryBlocksDefaults(t *testing.T) {
	profile := profileBlock(patient.Patient{Name: "Bob"})

	for _, want := range []string{"Not Set", "None listed", "None known", "None prescribed", "Standard follow-up care"} {
		if !strings.Contains(profile.Value, want) {
			t.Errorf("Expected default %q for empty fields", want)
		}
	}
}

func TestFormatMedications(t *testing.T) {
	if got := formatMedications(nil); got != "None prescribed" {
		t.Errorf("Expected 'None prescribed', got %q", got)
	}

	got := formatMedications([]patient.Medication{
		{Name: "A", Dosage: "1mg", Frequency: "daily"},
		{Name: "B", Dosage: "2mg", Frequency: "nightly"},
	})
	want := "  - A: 1mg daily\n  - B: 2mg nightly"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
