package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/store"
)

// LoggingProvider records every request as an llm_request event and traces
// it through the structured logger.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	log      *logger.Logger
	now      func() time.Time
}

// WithLogging wraps p. A nil repo skips persistence; a nil log is a no-op.
func WithLogging(p Provider, provider string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: provider, repo: repo, log: log, now: time.Now}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)
	latency := l.now().Sub(start)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed",
			"provider", l.provider, "model", data.Model, "purpose", purpose,
			"latency", latency, "error", err)
	} else {
		l.log.Debug("llm request",
			"provider", l.provider, "model", data.Model, "purpose", purpose,
			"latency", latency, "input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)
	}

	if l.repo != nil {
		if logErr := l.repo.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.Warn("failed to record llm request", "error", logErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the request as readable text for the event log.
func serializeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
