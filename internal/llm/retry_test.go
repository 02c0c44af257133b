package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{unavailable(), ok}, false, 2},
		{"all attempts fail", []MockResponse{unavailable(), unavailable(), unavailable()}, true, 3},
		{"rate limit then success", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, false, 2},
		{"invalid response retried once", []MockResponse{invalid, invalid, ok}, true, 2},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"cancel not retried", []MockResponse{{Err: context.Canceled}, ok}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewStrictMockProvider(tt.responses...)
			_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	mock := NewStrictMockProvider(unavailable(), unavailable())
	_, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ContextCancelledDuringWait(t *testing.T) {
	mock := NewStrictMockProvider(unavailable(), unavailable())
	cfg := RetryConfig{MaxAttempts: 2, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_BackoffBounds(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}
	for attempt := range 5 {
		d := r.backoff(attempt, errors.New("x"))
		assert.LessOrEqual(t, d, 360*time.Millisecond)
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
	}
	assert.Equal(t, 2*time.Second, r.backoff(0, &ErrRateLimit{RetryAfter: 2 * time.Second}))
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mock := NewMockProvider()
	require.Same(t, Provider(mock), WithTimeout(mock, 0))
}
