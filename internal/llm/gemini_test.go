package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{"type": "string", "description": "text"},
			"mood":  map[string]any{"type": "string", "enum": []any{"calm", "upbeat"}},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"score": map[string]any{"type": "number"},
		},
		"required": []string{"reply"},
	}

	s := toGeminiSchema(def)
	assert.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, genai.TypeString, s.Properties["reply"].Type)
	assert.Equal(t, []string{"calm", "upbeat"}, s.Properties["mood"].Enum)
	assert.Equal(t, genai.TypeArray, s.Properties["tags"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)
	assert.Equal(t, genai.TypeNumber, s.Properties["score"].Type)
	assert.Equal(t, []string{"reply"}, s.Required)
}

func TestGeminiProvider_HappyPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": `{"reply":"hi there"}`}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     12,
				"candidatesTokenCount": 4,
				"totalTokenCount":      16,
			},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", p.ModelID())

	resp, err := p.Generate(context.Background(), Request{
		System:   "be kind",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Schema:   chatTestSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.JSONEq(t, `{"reply":"hi there"}`, string(resp.Content))
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}
