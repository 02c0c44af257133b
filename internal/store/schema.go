package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	viewEventsTable   = "view_events"
	quizEventsTable   = "quiz_events"
	chatEventsTable   = "chat_events"
	uploadEventsTable = "upload_events"
	llmEventsTable    = "llm_request_events"
)

// eventTable builds a table carrying the shared event columns (id, global
// sequence, UTC timestamp in unix milliseconds) followed by extra.
func eventTable(name string, extra ...*schema.Column) *schema.Table {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
	}
	cols = append(cols, extra...)

	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
		},
	}
}

func column(name string, typ field.Type) *schema.Column {
	return &schema.Column{Name: name, Type: typ}
}

func defaulted(name string, typ field.Type, def any) *schema.Column {
	return &schema.Column{Name: name, Type: typ, Default: def}
}

var (
	viewEvents = eventTable(viewEventsTable,
		column("session_id", field.TypeString),
		column("video_index", field.TypeInt),
		column("title", field.TypeString),
		column("source", field.TypeString),
		column("duration_ms", field.TypeInt64),
		column("speed", field.TypeFloat64),
		column("completed", field.TypeBool),
	)

	quizEvents = eventTable(quizEventsTable,
		column("question_id", field.TypeString),
		column("answer", field.TypeString),
		column("correct", field.TypeBool),
	)

	chatEvents = eventTable(chatEventsTable,
		column("conversation_id", field.TypeString),
		column("role", field.TypeString),
		column("content", field.TypeString),
		defaulted("origin", field.TypeString, "rules"),
	)

	uploadEvents = eventTable(uploadEventsTable,
		column("file_name", field.TypeString),
		column("selected_pages", field.TypeInt),
		column("total_pages", field.TypeInt),
	)

	llmEvents = eventTable(llmEventsTable,
		column("provider", field.TypeString),
		column("model", field.TypeString),
		column("purpose", field.TypeString),
		defaulted("input_tokens", field.TypeInt, 0),
		defaulted("output_tokens", field.TypeInt, 0),
		column("latency_ms", field.TypeInt64),
		column("success", field.TypeBool),
		defaulted("error_message", field.TypeString, ""),
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)

	tables = []*schema.Table{viewEvents, quizEvents, chatEvents, uploadEvents, llmEvents}
)

func init() {
	addIndex(viewEvents, "session_id")
	addIndex(chatEvents, "conversation_id")
}

// addIndex adds a non-unique single-column index named <table>_<column>.
func addIndex(t *schema.Table, name string) {
	c, ok := t.Column(name)
	if !ok {
		panic(fmt.Sprintf("store: table %s has no column %s", t.Name, name))
	}
	t.Indexes = append(t.Indexes, &schema.Index{
		Name:    t.Name + "_" + name,
		Columns: []*schema.Column{c},
	})
}

// migrate creates or alters the event tables to match their definitions.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
