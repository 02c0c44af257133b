package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *eventRepo) AppendUpload(ctx context.Context, data UploadEventData) error {
	err := r.insert(ctx, uploadEventsTable,
		[]string{"file_name", "selected_pages", "total_pages"},
		[]any{data.FileName, data.SelectedPages, data.TotalPages},
	)
	if err != nil {
		return fmt.Errorf("save upload event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryUploads(ctx context.Context, opts QueryOpts) ([]UploadEvent, error) {
	sel := selectEvents(uploadEventsTable, opts, "file_name", "selected_pages", "total_pages")

	var out []UploadEvent
	err := r.queryRows(ctx, sel, func(rows *sql.Rows) error {
		var (
			e  UploadEvent
			ts int64
		)
		if err := rows.Scan(&e.Sequence, &ts, &e.FileName, &e.SelectedPages, &e.TotalPages); err != nil {
			return err
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query upload events: %w", err)
	}
	return out, nil
}
