package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen/internal/llm"
)

func TestRuleReply(t *testing.T) {
	tests := []struct {
		message string
		rule    string
	}{
		{"Can you EXPLAIN entropy?", "explain"},
		{"what is a neuron", "explain"},
		{"How does memory work", "explain"},
		{"please help me", "help"},
		{"can you do this", "help"},
		{"compare Piaget and Vygotsky", "analyze"},
		{"Write a poem", "create"},
		{"hi there", "hello"},
		{"Hello", "hello"},
		{"hi", ""},
		{"photosynthesis", ""},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			r := Match(tt.message)
			if tt.rule == "" {
				assert.Nil(t, r)
				assert.Equal(t, DefaultReply, RuleReply(tt.message))
				return
			}
			require.NotNil(t, r)
			assert.Equal(t, tt.rule, r.Name)
			assert.Equal(t, r.Reply, RuleReply(tt.message))
		})
	}
}

func TestFirstMatchWins(t *testing.T) {
	// "explain" precedes "help" and "create".
	r := Match("help me write it, then explain it")
	require.NotNil(t, r)
	assert.Equal(t, "explain", r.Name)
}

func TestQuickRepliesRouteToRules(t *testing.T) {
	require.Len(t, QuickReplies, 4)
	assert.Equal(t, "explain", Match(QuickReplies[0].Message).Name)
	assert.Nil(t, Match(QuickReplies[1].Message))
}

func TestVoiceAndAttachmentMessages(t *testing.T) {
	assert.Equal(t, "explain", Match(VoiceTranscript).Name)
	assert.Equal(t, "Uploaded file: notes.pdf", AttachmentMessage("notes.pdf"))
	assert.Equal(t, DefaultReply, RuleReply(AttachmentMessage("notes.pdf")))
}

func TestNewConversation(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a, b := NewConversation(now), NewConversation(now)

	assert.NotEqual(t, a.ID, b.ID)
	require.Len(t, a.Messages, 1)
	assert.Equal(t, Greeting, a.Last().Content)
	assert.Equal(t, RoleAssistant, a.Last().Role)
}

func userConversation(text string) *Conversation {
	c := NewConversation(time.Now())
	c.Add(Message{Role: RoleUser, Content: text, At: time.Now()})
	return c
}

func TestAssistant_RulesOnly(t *testing.T) {
	a := NewAssistant(nil, nil)
	assert.False(t, a.UsesLLM())

	reply, origin, err := a.Reply(context.Background(), userConversation("hello world"))
	require.NoError(t, err)
	assert.Equal(t, OriginRules, origin)
	assert.Equal(t, Rules[4].Reply, reply)
}

func TestAssistant_EmptyMessage(t *testing.T) {
	_, _, err := NewAssistant(nil, nil).Reply(context.Background(), userConversation("   "))
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, _, err = NewAssistant(nil, nil).Reply(context.Background(), NewConversation(time.Now()))
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestAssistant_LLM(t *testing.T) {
	mock := llm.NewStrictMockProvider(llm.JSONResponse(map[string]string{"reply": "Neurons fire."}))
	a := NewAssistant(mock, nil)

	conv := userConversation("what is a neuron")
	reply, origin, err := a.Reply(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, OriginLLM, origin)
	assert.Equal(t, "Neurons fire.", reply)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	require.Len(t, req.Messages, 1)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Equal(t, "chat-reply", req.Schema.Name)
}

func TestAssistant_LLMFallsBack(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: errors.New("down")}},
		{"empty reply", llm.JSONResponse(map[string]string{"reply": " "})},
		{"not json", llm.MockResponse{Content: []byte("nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssistant(llm.NewStrictMockProvider(tt.resp), nil)
			reply, origin, err := a.Reply(context.Background(), userConversation("compare these"))
			require.NoError(t, err)
			assert.Equal(t, OriginRules, origin)
			assert.Equal(t, Rules[2].Reply, reply)
		})
	}
}
