package agent

import (
	"fmt"
	"strings"

	"github.com/duxcare/portal/internal/patient"
)

// agentName derives the service-side agent name from the patient name.
func agentName(p patient.Patient) string {
	return "prof-dux-" + strings.ReplaceAll(strings.ToLower(p.Name), " ", "-")
}

// personaBlock seeds the assistant's identity and ground rules.
func personaBlock(p patient.Patient) memoryBlock {
	value := fmt.Sprintf(`You are Prof.Dux, a caring and knowledgeable post-discharge healthcare assistant personally assigned to %[1]s (Patient ID: %[2]s).

Your responsibilities:
1. Support %[1]s's recovery with personalized guidance.
2. Monitor conversations for concerning symptoms and recommend contacting the nursing staff when needed.
3. Provide clear medication guidance specific to %[1]s's prescriptions.
4. Answer health questions with evidence-based information relevant to their conditions.
5. Offer emotional support and encouragement during recovery.

Guidelines:
- Always address %[1]s by name and introduce yourself as Prof.Dux.
- Reference their specific conditions and medications when relevant.
- If %[1]s reports severe symptoms, immediately recommend they contact their nurse.
- Never provide emergency medical advice; direct them to call emergency services.
- Remember their allergies when discussing any treatment or medication.`, p.Name, orNotSet(p.PatientID))

	return memoryBlock{Label: "persona", Value: value}
}

// profileBlock seeds the patient's clinical profile.
func profileBlock(p patient.Patient) memoryBlock {
	value := fmt.Sprintf(`PATIENT INFORMATION - ALWAYS REMEMBER THIS:

Name: %s
Patient ID: %s
Email: %s

Current Medical Conditions: %s
Known Allergies: %s

Current Medications:
%s

Discharge Plan:
%s

Always reference this patient information when providing care.`,
		p.Name,
		orNotSet(p.PatientID),
		orDefault(p.Email, "Not provided"),
		orDefault(strings.Join(p.Conditions, ", "), "None listed"),
		orDefault(strings.Join(p.Allergies, ", "), "None known"),
		formatMedications(p.Medications),
		orDefault(p.DischargePlan, "Standard follow-up care"),
	)

	return memoryBlock{Label: "human", Value: value}
}

// initialContext is sent right after provisioning to reinforce the profile.
func initialContext(p patient.Patient) string {
	return fmt.Sprintf(`SYSTEM CONTEXT: You are now active as Prof.Dux, the personal healthcare assistant for %[1]s (ID: %[2]s).

Key patient information:
- Conditions: %[3]s
- Medications: %[4]d prescribed medications
- Allergies: %[5]s

When %[1]s messages you, greet them warmly by name and let them know you are here to help with their recovery.`,
		p.Name,
		orNotSet(p.PatientID),
		orDefault(strings.Join(p.Conditions, ", "), "None"),
		len(p.Medications),
		orDefault(strings.Join(p.Allergies, ", "), "None known"),
	)
}

// refreshContext rebuilds the profile for an already-running agent.
func refreshContext(p patient.Patient) string {
	return fmt.Sprintf(`CONTEXT REFRESH: Remember, you are Prof.Dux caring for %[1]s (ID: %[2]s).

Current patient details:
- Medical Conditions: %[3]s
- Current Medications: %[4]s
- Known Allergies: %[5]s
- Discharge Plan: %[6]s

Always address %[1]s by name and reference their specific medical information when providing guidance.`,
		p.Name,
		orNotSet(p.PatientID),
		orDefault(strings.Join(p.Conditions, ", "), "None listed"),
		formatMedications(p.Medications),
		orDefault(strings.Join(p.Allergies, ", "), "None known"),
		orDefault(p.DischargePlan, "Standard follow-up care"),
	)
}

func formatMedications(meds []patient.Medication) string {
	if len(meds) == 0 {
		return "None prescribed"
	}
	lines := make([]string, 0, len(meds))
	for _, med := range meds {
		lines = append(lines, fmt.Sprintf("  - %s: %s %s", med.Name, med.Dosage, med.Frequency))
	}
	return strings.Join(lines, "\n")
}

func orNotSet(s string) string {
	return orDefault(s, "Not Set")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
