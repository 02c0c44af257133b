package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	var body map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"reply":"Photosynthesis turns light into sugar."}`, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System: "You are a study assistant.",
		Messages: []Message{
			{Role: RoleUser, Content: "Explain photosynthesis"},
			{Role: RoleAssistant, Content: "Sure."},
			{Role: RoleUser, Content: "Shorter please"},
		},
		Schema: chatTestSchema(),
	})
	require.NoError(t, err)

	assert.Equal(t, 50, resp.Usage.InputTokens)
	assert.Equal(t, 80, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5", body["model"])
	assert.EqualValues(t, DefaultMaxTokens, body["max_tokens"])
	assert.Len(t, body["messages"], 3)

	var out struct{ Reply string }
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "Photosynthesis turns light into sugar.", out.Reply)
}

func TestAnthropicProvider_TruncatedSchemaResponse(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"reply":"Photo`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Schema:   chatTestSchema(),
	})
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestAnthropicProvider_ErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"rate limit", http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl *ErrRateLimit
			assert.ErrorAs(t, err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var unavail *ErrProviderUnavailable
			assert.ErrorAs(t, err, &unavail)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"type":  "error",
					"error": map[string]any{"type": "api_error", "message": "nope"},
				})
			})
			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	assert.Error(t, err)
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		models map[string]string
		input  string
		want   string
	}{
		{anthropicModels, "claude-sonnet", "claude-sonnet-4-5"},
		{anthropicModels, "claude-haiku", "claude-haiku-4-5"},
		{anthropicModels, "claude-opus-4-5", "claude-opus-4-5"},
		{openaiModels, "gpt-mini", "gpt-4o-mini"},
		{geminiModels, "gemini-flash", "gemini-2.5-flash"},
		{geminiModels, "gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.input, tt.models), tt.input)
	}
}
