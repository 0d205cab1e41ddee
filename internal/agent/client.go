// Package agent is the client for the external conversational-agent
// service. The service owns assistant text end to end; this package only
// provisions agents, relays messages and fetches raw transcripts.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/duxcare/portal/internal/patient"
	"github.com/duxcare/portal/internal/shared/config"
	"github.com/duxcare/portal/internal/shared/metrics"
)

// Client talks to the agent service over HTTP.
type Client struct {
	http *resty.Client
	cfg  config.AgentConfig
}

// NewClient creates an agent service client.
func NewClient(cfg config.AgentConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryAttempts).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, cfg: cfg}
}

// Provision creates an agent seeded with the patient's persona and clinical
// profile and returns its opaque handle. Seeding the initial context is
// best effort; a created agent is returned even if that follow-up fails.
func (c *Client) Provision(ctx context.Context, p patient.Patient) (string, error) {
	start := time.Now()

	req := createAgentRequest{
		Name:               agentName(p),
		MemoryBlocks:       []memoryBlock{personaBlock(p), profileBlock(p)},
		Model:              c.cfg.Model,
		Embedding:          c.cfg.EmbeddingModel,
		ContextWindowLimit: c.cfg.ContextWindow,
	}

	var created createAgentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&created).
		Post("/v1/agents")
	if err != nil {
		metrics.RecordAgentRequest("provision", "error", time.Since(start))
		return "", fmt.Errorf("agent provisioning request failed: %w", err)
	}
	if resp.IsError() {
		metrics.RecordAgentRequest("provision", "error", time.Since(start))
		return "", fmt.Errorf("agent provisioning failed: %s", resp.Status())
	}
	if created.ID == "" {
		metrics.RecordAgentRequest("provision", "error", time.Since(start))
		return "", fmt.Errorf("agent provisioning returned no agent id")
	}
	metrics.RecordAgentRequest("provision", "ok", time.Since(start))

	if err := c.postMessages(ctx, created.ID, "system", initialContext(p)); err != nil {
		fmt.Printf("Warning: could not seed initial context for agent %s: %v\n", created.ID, err)
	}

	return created.ID, nil
}

// SendMessage relays one message to an agent and returns the raw response
// turn. Nurse-instruction-prefixed text goes out as a system message;
// everything else is a user message attributed to the patient.
func (c *Client) SendMessage(ctx context.Context, agentID, patientName, message string) (SendResponse, error) {
	role := "user"
	content := message
	if strings.HasPrefix(message, NurseInstructionPrefix) {
		role = "system"
	} else if patientName != "" {
		content = fmt.Sprintf("Patient %s says: %s", patientName, message)
	}

	start := time.Now()
	var result sendMessagesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendMessagesRequest{Messages: []messageCreate{{Role: role, Content: content}}}).
		SetResult(&result).
		Post(fmt.Sprintf("/v1/agents/%s/messages", agentID))
	if err != nil {
		metrics.RecordAgentRequest("send_message", "error", time.Since(start))
		return SendResponse{}, fmt.Errorf("failed to send message: %w", err)
	}
	if resp.IsError() {
		metrics.RecordAgentRequest("send_message", "error", time.Since(start))
		return SendResponse{}, fmt.Errorf("failed to send message: %s", resp.Status())
	}
	metrics.RecordAgentRequest("send_message", "ok", time.Since(start))

	return SendResponse{
		Messages:     result.Messages,
		Success:      true,
		MessageCount: len(result.Messages),
	}, nil
}

// Messages fetches the most recent raw transcript entries for an agent.
func (c *Client) Messages(ctx context.Context, agentID string, limit int) ([]Message, error) {
	start := time.Now()
	var result listMessagesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&result).
		Get(fmt.Sprintf("/v1/agents/%s/messages", agentID))
	if err != nil {
		metrics.RecordAgentRequest("list_messages", "error", time.Since(start))
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if resp.IsError() {
		metrics.RecordAgentRequest("list_messages", "error", time.Since(start))
		return nil, fmt.Errorf("failed to list messages: %s", resp.Status())
	}
	metrics.RecordAgentRequest("list_messages", "ok", time.Since(start))

	return result.Data, nil
}

// RefreshContext pushes a rebuilt patient profile to a running agent as a
// system message.
func (c *Client) RefreshContext(ctx context.Context, agentID string, p patient.Patient) error {
	start := time.Now()
	err := c.postMessages(ctx, agentID, "system", refreshContext(p))
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordAgentRequest("refresh_context", status, time.Since(start))
	return err
}

// Health checks agent service reachability.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/v1/health")
	if err != nil {
		return fmt.Errorf("agent service unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("agent service returned %s", resp.Status())
	}
	return nil
}

func (c *Client) postMessages(ctx context.Context, agentID, role, content string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendMessagesRequest{Messages: []messageCreate{{Role: role, Content: content}}}).
		Post(fmt.Sprintf("/v1/agents/%s/messages", agentID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("agent service returned %s", resp.Status())
	}
	return nil
}
