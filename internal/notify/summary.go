package notify

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/duxcare/portal/internal/patient"
	"github.com/duxcare/portal/internal/shared/config"
)

// SummaryGenerator produces the personalized prose for the welcome email.
type SummaryGenerator interface {
	Summary(ctx context.Context, p patient.Patient) (string, error)
}

// OpenAISummarizer generates the summary with a chat model, falling back
// to the static template whenever the call fails.
type OpenAISummarizer struct {
	client       *openai.Client
	model        string
	hospitalName string
}

// NewOpenAISummarizer creates a model-backed summarizer. Returns nil when
// no API key is configured; callers should then use StaticSummarizer.
func NewOpenAISummarizer(cfg config.SummaryConfig, hospitalName string) *OpenAISummarizer {
	if cfg.OpenAIKey == "" {
		return nil
	}
	return &OpenAISummarizer{
		client:       openai.NewClient(cfg.OpenAIKey),
		model:        cfg.Model,
		hospitalName: hospitalName,
	}
}

// Summary asks the model for a short, warm medical summary.
func (s *OpenAISummarizer) Summary(ctx context.Context, p patient.Patient) (string, error) {
	prompt := fmt.Sprintf(`Create a warm, personalized medical summary email for a patient who just received access to their post-hospital care system.

Hospital: %s
Patient: %s
Conditions: %s
Medications: %s
Allergies: %s
Discharge plan: %s

The summary should welcome the patient on behalf of the hospital, summarize their care plan, explain how to use their healthcare assistant (Prof.Dux), encourage their recovery, use simple language, and sign off as "The %s Care Team". Keep it between 100 and 200 words.`,
		s.hospitalName,
		p.Name,
		orNone(strings.Join(p.Conditions, ", "), "None listed"),
		orNone(medicationSummary(p.Medications), "None prescribed"),
		orNone(strings.Join(p.Allergies, ", "), "None known"),
		orNone(p.DischargePlan, "Standard follow-up care"),
		s.hospitalName,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary generation returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// StaticSummarizer is the template fallback used when no model is
// configured or the model call fails.
type StaticSummarizer struct {
	HospitalName string
}

// Summary returns the static welcome summary.
func (s StaticSummarizer) Summary(_ context.Context, p patient.Patient) (string, error) {
	return fmt.Sprintf(`Dear %[1]s,

Welcome to your personal post-hospital care system from %[2]s! We're here to support your recovery journey every step of the way.

Your healthcare team has set up a personalized assistant called Prof.Dux to help you with questions about your medications, symptoms, and recovery. Your assistant knows about your medical history and can provide guidance 24/7.

Please use the login credentials provided to access your healthcare portal. If you have any concerning symptoms or urgent questions, don't hesitate to reach out to your healthcare team immediately.

Wishing you a smooth and speedy recovery!

The %[2]s Care Team`, p.Name, s.HospitalName), nil
}

func medicationSummary(meds []patient.Medication) string {
	parts := make([]string, 0, len(meds))
	for _, med := range meds {
		parts = append(parts, fmt.Sprintf("%s (%s %s)", med.Name, med.Dosage, med.Frequency))
	}
	return strings.Join(parts, ", ")
}

func orNone(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
