package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// JSONResponse builds a MockResponse whose content is v marshalled as JSON.
func JSONResponse(v any) MockResponse {
	raw, err := json.Marshal(v)
	if err != nil {
		return MockResponse{Err: err}
	}
	return MockResponse{Content: raw}
}

// MockProvider is a deterministic Provider. It returns canned responses in
// FIFO order and records all requests. With an empty queue it echoes the
// last user message inside a {"reply": ...} object, which keeps the "mock"
// provider usable from the CLI.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	strict    bool
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewStrictMockProvider is like NewMockProvider but fails with
// ErrProviderUnavailable once the queue is drained.
func NewStrictMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses, strict: true}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		if m.strict {
			return nil, &ErrProviderUnavailable{}
		}
		return m.echo(req), nil
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (m *MockProvider) echo(req Request) *Response {
	var last string
	for _, msg := range req.Messages {
		if msg.Role == RoleUser {
			last = msg.Content
		}
	}
	raw, _ := json.Marshal(map[string]string{"reply": "You said: " + last})
	return &Response{Content: raw, Model: "mock", StopReason: "end"}
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
