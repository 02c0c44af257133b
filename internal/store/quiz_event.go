package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *eventRepo) AppendQuiz(ctx context.Context, data QuizEventData) error {
	err := r.insert(ctx, quizEventsTable,
		[]string{"question_id", "answer", "correct"},
		[]any{data.QuestionID, data.Answer, data.Correct},
	)
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuiz(ctx context.Context, opts QueryOpts) ([]QuizEvent, error) {
	sel := selectEvents(quizEventsTable, opts, "question_id", "answer", "correct")

	var out []QuizEvent
	err := r.queryRows(ctx, sel, func(rows *sql.Rows) error {
		var (
			e  QuizEvent
			ts int64
		)
		if err := rows.Scan(&e.Sequence, &ts, &e.QuestionID, &e.Answer, &e.Correct); err != nil {
			return err
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}
	return out, nil
}
