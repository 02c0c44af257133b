package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/lumen/internal/llm"
	"github.com/lumenlearn/lumen/internal/logger"
)

// ReplyDelay is the simulated typing time before the assistant answers.
const ReplyDelay = time.Second

// VoiceDelay is how long simulated voice input listens before posting its
// transcript.
const VoiceDelay = 2 * time.Second

// Origin tells where a reply came from.
type Origin string

const (
	OriginRules Origin = "rules"
	OriginLLM   Origin = "llm"
)

// Role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a Conversation.
type Message struct {
	Role    Role
	Content string
	Origin  Origin
	At      time.Time
}

// Conversation is an in-memory chat transcript.
type Conversation struct {
	ID       string
	Messages []Message
}

// NewConversation starts a conversation seeded with the greeting.
func NewConversation(now time.Time) *Conversation {
	return &Conversation{
		ID: uuid.NewString(),
		Messages: []Message{{
			Role:    RoleAssistant,
			Content: Greeting,
			Origin:  OriginRules,
			At:      now,
		}},
	}
}

// Add appends m to the transcript.
func (c *Conversation) Add(m Message) {
	c.Messages = append(c.Messages, m)
}

// Last returns the most recent message.
func (c *Conversation) Last() Message {
	return c.Messages[len(c.Messages)-1]
}

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = errors.New("chat: empty message")

const systemPrompt = `You are the study assistant inside lumen, a terminal app that turns
study material into short narrated lessons. Answer the learner's latest
message in at most a few short paragraphs of plain text (no markdown
headings). Keep a friendly, encouraging tone.`

var replySchema = &llm.Schema{
	Name:        "chat-reply",
	Description: "The assistant's reply to the learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"description": "Plain-text reply shown in the chat transcript",
			},
		},
		"required":             []string{"reply"},
		"additionalProperties": false,
	},
}

// Assistant produces replies. With a provider it asks the LLM first and falls
// back to the keyword rules on any error.
type Assistant struct {
	provider llm.Provider
	log      *logger.Logger
}

// NewAssistant returns an Assistant. provider may be nil.
func NewAssistant(provider llm.Provider, log *logger.Logger) *Assistant {
	if log == nil {
		log = logger.Nop()
	}
	return &Assistant{provider: provider, log: log}
}

// UsesLLM reports whether a provider is configured.
func (a *Assistant) UsesLLM() bool { return a.provider != nil }

// Reply answers the latest user message of conv.
func (a *Assistant) Reply(ctx context.Context, conv *Conversation) (string, Origin, error) {
	last := conv.Last()
	if last.Role != RoleUser || strings.TrimSpace(last.Content) == "" {
		return "", "", ErrEmptyMessage
	}
	if a.provider == nil {
		return RuleReply(last.Content), OriginRules, nil
	}

	reply, err := a.ask(ctx, conv)
	if err != nil {
		a.log.Warn("llm chat reply failed, using rules", "conversation", conv.ID, "error", err)
		return RuleReply(last.Content), OriginRules, nil
	}
	return reply, OriginLLM, nil
}

func (a *Assistant) ask(ctx context.Context, conv *Conversation) (string, error) {
	req := llm.Request{
		System:      systemPrompt,
		Schema:      replySchema,
		Temperature: 0.4,
	}
	// The greeting is local; start the transcript at the first user turn.
	for _, m := range conv.Messages {
		if m.Role == RoleAssistant && len(req.Messages) == 0 {
			continue
		}
		role := llm.RoleUser
		if m.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		req.Messages = append(req.Messages, llm.Message{Role: role, Content: m.Content})
	}

	resp, err := a.provider.Generate(llm.WithPurpose(ctx, llm.PurposeChat), req)
	if err != nil {
		return "", err
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Reply) == "" {
		return "", errors.New("empty reply")
	}
	return out.Reply, nil
}
