package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type align int

const (
	left align = iota
	right
)

type column struct {
	Title string
	Align align
}

// printTable writes rows under cols with rounded borders. A non-nil footer is
// rendered below a separator.
func printTable(w io.Writer, cols []column, rows [][]string, footer []string) {
	if len(cols) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(pad(cols, nil, func(c column) string { return c.Title }))
	for _, r := range rows {
		tw.AppendRow(pad(cols, r, nil))
	}
	if footer != nil {
		tw.AppendFooter(pad(cols, footer, nil))
	}

	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		a := text.AlignLeft
		if c.Align == right {
			a = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: a, AlignFooter: a, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)
	tw.Render()
}

func pad(cols []column, values []string, title func(column) string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		switch {
		case title != nil:
			row[i] = title(c)
		case i < len(values):
			row[i] = values[i]
		default:
			row[i] = ""
		}
	}
	return row
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm %02ds", m, int(d%time.Minute/time.Second))
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
