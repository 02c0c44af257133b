package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder over the shared
// connection and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// insert appends one row with the next global sequence and the current time.
func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := r.now().UTC().UnixMilli()
	query, args := builder().
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, ts}, vals...)...).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// selectEvents builds a select of the shared event columns followed by cols,
// filtered and ordered by opts.
func selectEvents(table string, opts QueryOpts, cols ...string) *entsql.Selector {
	b := builder()
	sel := b.Select(append([]string{"sequence", "timestamp"}, cols...)...).
		From(b.Table(table))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC().UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC().UnixMilli()))
	}
	if opts.Newest {
		sel.OrderBy(entsql.Desc("sequence"))
	} else {
		sel.OrderBy(entsql.Asc("sequence"))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

// queryRows runs sel and calls scan once per row.
func (r *eventRepo) queryRows(ctx context.Context, sel *entsql.Selector, scan func(*sql.Rows) error) error {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// scanInt runs a single-value aggregate query. NULL reads as zero.
func (r *eventRepo) scanInt(ctx context.Context, sel *entsql.Selector) (int64, error) {
	query, args := sel.Query()
	var v sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return 0, err
	}
	return v.Int64, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
