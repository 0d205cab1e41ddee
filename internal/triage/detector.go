// Package triage classifies inbound patient messages into nurse-facing
// alerts. The classifier is a deliberately conservative keyword matcher:
// false positives are acceptable, missed escalations are not.
package triage

import (
	"fmt"
	"strings"

	"github.com/duxcare/portal/internal/patient"
)

// RequestContactPhrases are explicit asks to involve a nurse. Any match
// raises a high-priority alert regardless of other content.
var RequestContactPhrases = []string{
	"inform the nurse",
	"tell the nurse",
	"contact the nurse",
	"notify the nurse",
	"alert the nurse",
	"let the nurse know",
}

// SymptomPhrases are symptom and distress keywords that raise a
// medium-priority alert when no contact request is present.
var SymptomPhrases = []string{
	"chest pain",
	"can't breathe",
	"difficulty breathing",
	"severe pain",
	"emergency",
	"help",
	"dizzy",
	"lightheaded",
	"nausea",
	"vomiting",
	"feel bad",
	"feel terrible",
	"feel awful",
	"pain",
	"hurt",
}

// Detection is a classified alert for one inbound message.
type Detection struct {
	Priority patient.Priority
	Message  string
}

// Detect classifies one inbound message. Matching is case-insensitive and
// the first rule wins: a contact request outranks symptom keywords, and at
// most one alert is produced per message. The alert text retains the
// original casing.
func Detect(message string) (Detection, bool) {
	lower := strings.ToLower(message)

	for _, phrase := range RequestContactPhrases {
		if strings.Contains(lower, phrase) {
			return Detection{
				Priority: patient.PriorityHigh,
				Message:  fmt.Sprintf("Patient requested nurse contact: %s", message),
			}, true
		}
	}

	for _, phrase := range SymptomPhrases {
		if strings.Contains(lower, phrase) {
			return Detection{
				Priority: patient.PriorityMedium,
				Message:  fmt.Sprintf("Concerning symptoms reported: %s", message),
			}, true
		}
	}

	return Detection{}, false
}
