package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultMaxTokens is used when a Request leaves MaxTokens at zero.
const DefaultMaxTokens = 512

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt and returns the response. When the request
	// carries a Schema the response Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation so far, oldest first. Chat sends the
	// whole transcript; one-shot probes send a single user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. When nil the
	// response Content is raw text.
	Schema *Schema

	// MaxTokens caps the response length. Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0.
	Temperature float64
}

func (r Request) maxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

// Message is a single turn in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, kebab-case, e.g. "chat-reply".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the validated JSON object when a Schema was requested,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Decode unmarshals Content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
