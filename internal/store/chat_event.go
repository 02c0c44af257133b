package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendChat(ctx context.Context, data ChatEventData) error {
	err := r.insert(ctx, chatEventsTable,
		[]string{"conversation_id", "role", "content", "origin"},
		[]any{data.ConversationID, data.Role, data.Content, data.Origin},
	)
	if err != nil {
		return fmt.Errorf("save chat event: %w", err)
	}
	return nil
}

// QueryChat returns messages, optionally restricted to one conversation.
func (r *eventRepo) QueryChat(ctx context.Context, conversationID string, opts QueryOpts) ([]ChatEvent, error) {
	sel := selectEvents(chatEventsTable, opts, "conversation_id", "role", "content", "origin")
	if conversationID != "" {
		sel.Where(entsql.EQ("conversation_id", conversationID))
	}

	var out []ChatEvent
	err := r.queryRows(ctx, sel, func(rows *sql.Rows) error {
		var (
			e  ChatEvent
			ts int64
		)
		if err := rows.Scan(&e.Sequence, &ts, &e.ConversationID, &e.Role, &e.Content, &e.Origin); err != nil {
			return err
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query chat events: %w", err)
	}
	return out, nil
}
