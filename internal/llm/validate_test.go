package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSchema() *Schema {
	return &Schema{
		Name: "test-object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"grade": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			},
			"required": []any{"name", "age"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"all fields", `{"name":"Alice","age":10,"grade":"A"}`, true},
		{"optional omitted", `{"name":"Bob","age":8}`, true},
		{"missing required", `{"name":"Charlie"}`, false},
		{"wrong type", `{"name":"Dave","age":"ten"}`, false},
		{"enum violation", `{"name":"Eve","age":9,"grade":"Z"}`, false},
		{"minimum violation", `{"name":"Finn","age":-1}`, false},
		{"not json", `name: Gus`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.ErrorAs(t, err, &inv)
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage("anything")))
}
