package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func (r *eventRepo) AppendView(ctx context.Context, data ViewEventData) error {
	err := r.insert(ctx, viewEventsTable,
		[]string{"session_id", "video_index", "title", "source", "duration_ms", "speed", "completed"},
		[]any{data.SessionID, data.VideoIndex, data.Title, data.Source, data.Duration.Milliseconds(), data.Speed, data.Completed},
	)
	if err != nil {
		return fmt.Errorf("save view event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryViews(ctx context.Context, opts QueryOpts) ([]ViewEvent, error) {
	sel := selectEvents(viewEventsTable, opts,
		"session_id", "video_index", "title", "source", "duration_ms", "speed", "completed")

	var out []ViewEvent
	err := r.queryRows(ctx, sel, func(rows *sql.Rows) error {
		var (
			e      ViewEvent
			ts, ms int64
		)
		if err := rows.Scan(&e.Sequence, &ts, &e.SessionID, &e.VideoIndex, &e.Title, &e.Source, &ms, &e.Speed, &e.Completed); err != nil {
			return err
		}
		e.Timestamp = fromMillis(ts)
		e.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query view events: %w", err)
	}
	return out, nil
}
