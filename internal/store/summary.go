package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) count(ctx context.Context, table string, preds ...*entsql.Predicate) (int, error) {
	b := builder()
	sel := b.Select(entsql.Count("*")).From(b.Table(table))
	for _, p := range preds {
		sel.Where(p)
	}
	n, err := r.scanInt(ctx, sel)
	return int(n), err
}

func (r *eventRepo) sum(ctx context.Context, table, col string) (int64, error) {
	b := builder()
	return r.scanInt(ctx, b.Select(entsql.Sum(col)).From(b.Table(table)))
}

func (r *eventRepo) Summary(ctx context.Context) (Summary, error) {
	var (
		s   Summary
		err error
	)
	steps := []func() error{
		func() (e error) { s.Views, e = r.count(ctx, viewEventsTable); return },
		func() (e error) {
			s.Completed, e = r.count(ctx, viewEventsTable, entsql.EQ("completed", true))
			return
		},
		func() error {
			ms, e := r.sum(ctx, viewEventsTable, "duration_ms")
			s.WatchTime = time.Duration(ms) * time.Millisecond
			return e
		},
		func() (e error) { s.QuizAnswered, e = r.count(ctx, quizEventsTable); return },
		func() (e error) {
			s.QuizCorrect, e = r.count(ctx, quizEventsTable, entsql.EQ("correct", true))
			return
		},
		func() (e error) { s.ChatMessages, e = r.count(ctx, chatEventsTable); return },
		func() (e error) { s.Uploads, e = r.count(ctx, uploadEventsTable); return },
		func() (e error) { s.LLMRequests, e = r.count(ctx, llmEventsTable); return },
		func() error {
			n, e := r.sum(ctx, llmEventsTable, "input_tokens")
			s.InputTokens = int(n)
			return e
		},
		func() error {
			n, e := r.sum(ctx, llmEventsTable, "output_tokens")
			s.OutputTokens = int(n)
			return e
		},
		func() error {
			b := builder()
			first, e := r.scanInt(ctx, b.Select(entsql.Min("timestamp")).From(b.Table(viewEventsTable)))
			if e == nil && first > 0 {
				s.FirstActivity = fromMillis(first)
			}
			return e
		},
	}
	for _, step := range steps {
		if err = step(); err != nil {
			return Summary{}, fmt.Errorf("summarize events: %w", err)
		}
	}
	return s, nil
}

func (r *eventRepo) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := QueryOpts{Limit: limit, Newest: true}
	var out []HistoryEntry

	views, err := r.QueryViews(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		state := "watched"
		if v.Completed {
			state = "completed"
		}
		out = append(out, HistoryEntry{
			EventMeta: v.EventMeta,
			Kind:      "view",
			Detail:    fmt.Sprintf("%s %q for %s at %.4gx", state, v.Title, v.Duration.Round(time.Second), v.Speed),
		})
	}

	quizzes, err := r.QueryQuiz(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, q := range quizzes {
		verdict := "incorrect"
		if q.Correct {
			verdict = "correct"
		}
		out = append(out, HistoryEntry{
			EventMeta: q.EventMeta,
			Kind:      "quiz",
			Detail:    fmt.Sprintf("answered %q (%s)", q.Answer, verdict),
		})
	}

	chats, err := r.QueryChat(ctx, "", opts)
	if err != nil {
		return nil, err
	}
	for _, c := range chats {
		out = append(out, HistoryEntry{
			EventMeta: c.EventMeta,
			Kind:      "chat",
			Detail:    c.Role + ": " + truncate(c.Content, 60),
		})
	}

	uploads, err := r.QueryUploads(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, u := range uploads {
		out = append(out, HistoryEntry{
			EventMeta: u.EventMeta,
			Kind:      "upload",
			Detail:    fmt.Sprintf("%s (%d of %d pages)", u.FileName, u.SelectedPages, u.TotalPages),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
