package agent

// Message types used by the conversational-agent service.
const (
	MessageTypeUser      = "user_message"
	MessageTypeAssistant = "assistant_message"
	MessageTypeSystem    = "system_message"
	MessageTypeReasoning = "reasoning_message"
)

// NurseInstructionPrefix marks a nurse care directive on the wire. The
// agent receives prefixed text as a system message, and the transcript
// filter re-tags it for display.
const NurseInstructionPrefix = "📋 **CARE INSTRUCTION FROM NURSE:**"

// Message is one raw transcript entry as supplied by the agent service.
type Message struct {
	ID          string `json:"id,omitempty"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
	Date        string `json:"date"`
}

// SendResponse is the raw result of one request/response cycle with an agent.
type SendResponse struct {
	Messages     []Message `json:"messages"`
	Success      bool      `json:"success"`
	MessageCount int       `json:"message_count"`
}

// memoryBlock seeds one labelled region of agent memory at creation time.
type memoryBlock struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// createAgentRequest is the provisioning payload.
type createAgentRequest struct {
	Name               string        `json:"name"`
	MemoryBlocks       []memoryBlock `json:"memory_blocks"`
	Model              string        `json:"model"`
	Embedding          string        `json:"embedding"`
	ContextWindowLimit int           `json:"context_window_limit"`
}

// createAgentResponse carries the opaque agent handle.
type createAgentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// messageCreate is one outbound message in a send request.
type messageCreate struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// sendMessagesRequest is the payload for posting messages to an agent.
type sendMessagesRequest struct {
	Messages []messageCreate `json:"messages"`
}

// sendMessagesResponse is the agent service's reply to a send request.
type sendMessagesResponse struct {
	Messages []Message `json:"messages"`
}

// listMessagesResponse is the agent service's reply to a history request.
type listMessagesResponse struct {
	Data []Message `json:"data"`
}
