// Package transcript reduces raw agent conversations to a clean,
// presentation-safe form. Both passes are stateless and order-preserving;
// they drop and re-tag entries but never reorder or invent them.
package transcript

import (
	"strings"

	"github.com/duxcare/portal/internal/agent"
)

// Display roles after normalization.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// boilerplateMarker appears in canned internal messages emitted by the
// agent runtime; entries carrying it are never patient-facing.
const boilerplateMarker = "More human than human is our motto"

// metaPhrases mark assistant output that leaks memory-system or planning
// internals and must not reach the patient.
var metaPhrases = []string{
	"core memory",
	"archival memory",
	"system_alert",
	"i should",
}

// responseMetaPhrases extends metaPhrases with refusal/meta wording that
// only shows up in fresh response turns.
var responseMetaPhrases = []string{
	"core memory",
	"archival memory",
	"system_alert",
	"no need to",
	"i can answer using",
	"i should",
}

// DisplayMessage is one normalized chat entry ready for rendering.
type DisplayMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// FilteredResponse is a caller-safe single-turn payload. An empty message
// list is a valid outcome, not an error.
type FilteredResponse struct {
	Messages     []agent.Message `json:"messages"`
	Success      bool            `json:"success"`
	MessageCount int             `json:"message_count"`
}

// FormatForDisplay normalizes a raw agent transcript into display entries.
// Internal reasoning, blank entries, runtime boilerplate and serialized
// structured payloads are dropped; the rest are re-tagged by role and
// stripped of internal speaker labels. Relative order is preserved.
func FormatForDisplay(raw []agent.Message) []DisplayMessage {
	var out []DisplayMessage

	for _, msg := range raw {
		content := msg.Content

		if msg.MessageType == agent.MessageTypeReasoning ||
			strings.TrimSpace(content) == "" ||
			strings.Contains(content, boilerplateMarker) ||
			looksStructured(content) {
			continue
		}

		switch {
		case strings.HasPrefix(content, agent.NurseInstructionPrefix):
			out = append(out, DisplayMessage{
				Role: RoleSystem,
				Text: strings.Replace(content, agent.NurseInstructionPrefix+" ", "Nurse: ", 1),
			})

		case msg.MessageType == agent.MessageTypeUser:
			text := strings.TrimSpace(strings.ReplaceAll(content, "**You:**", ""))
			if strings.HasPrefix(text, "{") {
				continue
			}
			out = append(out, DisplayMessage{Role: RoleUser, Text: text})

		case msg.MessageType == agent.MessageTypeAssistant:
			if containsAny(strings.ToLower(content), metaPhrases) {
				continue
			}
			text := strings.TrimSpace(strings.ReplaceAll(content, "**Assistant:**", ""))
			// Anything this short is a degenerate acknowledgement.
			if len(text) <= 10 {
				continue
			}
			out = append(out, DisplayMessage{Role: RoleAssistant, Text: text})
		}
	}

	return out
}

// FilterResponse reduces one agent turn to the assistant messages safe to
// relay. Filtering everything out yields an empty, still-successful result.
// Idempotent: filtering an already-filtered response changes nothing.
func FilterResponse(resp agent.SendResponse) FilteredResponse {
	out := FilteredResponse{Success: true}

	for _, msg := range resp.Messages {
		if msg.MessageType != agent.MessageTypeAssistant || msg.Content == "" {
			continue
		}
		if containsAny(strings.ToLower(msg.Content), responseMetaPhrases) {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(msg.Content), "{") {
			continue
		}
		out.Messages = append(out.Messages, msg)
		out.MessageCount++
	}

	return out
}

// looksStructured heuristically spots a serialized payload posing as text.
func looksStructured(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "{") && strings.Contains(content, "type")
}

func containsAny(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}
