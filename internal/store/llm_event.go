package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, llmEventsTable,
		[]string{
			"provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body",
		},
		[]any{
			data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := selectEvents(llmEventsTable, opts,
		"provider", "model", "purpose", "input_tokens", "output_tokens",
		"latency_ms", "success", "error_message", "request_body", "response_body")

	var out []LLMRequestEvent
	err := r.queryRows(ctx, sel, func(rows *sql.Rows) error {
		var (
			e  LLMRequestEvent
			ts int64
		)
		if err := rows.Scan(&e.Sequence, &ts,
			&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
			&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
		); err != nil {
			return err
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	return out, nil
}
