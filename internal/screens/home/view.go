package home

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/stats"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// Block-letter title.
const titleFull = `█   █ █ █▄ ▄█ █▀▀ █▄ █
█   █ █ █ ▀ █ █▀▀ █ ▀█
▀▀▀ ▀▀▀ ▀   ▀ ▀▀▀ ▀  ▀`

const titleCompact = "L · U · M · E · N"

const weekBarWidth = 12

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(art))
}

// renderStatsBar renders lifetime totals in a bordered box.
func renderStatsBar(sum store.Summary, o stats.Overview, cw int) string {
	views := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	watch := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	quiz := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	streak := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	line := fmt.Sprintf("%s  %s  %s  %s",
		views.Render(fmt.Sprintf("▶ %d VIEWED", sum.Completed)),
		watch.Render(fmt.Sprintf("◷ %s", formatWatch(sum.WatchTime))),
		quiz.Render(fmt.Sprintf("✓ %d/%d QUIZ", sum.QuizCorrect, sum.QuizAnswered)),
		streak.Render(fmt.Sprintf("● %d/7 DAYS", o.ActiveThisWeek())),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Render(line)
}

func formatWatch(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

// maxCourses caps the Continue Learning cards.
const maxCourses = 3

// renderCourses shows per-source progress, unfinished courses first.
func renderCourses(courses []stats.Course, width int, compact bool) string {
	ordered := make([]stats.Course, 0, len(courses))
	for _, c := range courses {
		if !c.Done() {
			ordered = append(ordered, c)
		}
	}
	for _, c := range courses {
		if c.Done() {
			ordered = append(ordered, c)
		}
	}
	limit := maxCourses
	if compact {
		limit = 1
	}
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	blocks := make([]string, 0, len(ordered))
	for _, c := range ordered {
		next := "All videos watched"
		if !c.Done() {
			next = "Next: " + c.NextTitle
		}
		head := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Source) +
			dim.Render(fmt.Sprintf("  %d/%d videos · %s", c.Completed, c.Videos, next))
		bar := components.NewProgressBar("", c.Percent(), true, max(width, 20))
		blocks = append(blocks, head+"\n"+bar.View())
	}
	return components.Section("Continue Learning", strings.Join(blocks, "\n"))
}

// renderWeek lists Sunday through Saturday with minutes, videos and subjects.
func renderWeek(w stats.Week, now time.Time) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	today := now.Format("2006-01-02")

	rows := make([]string, 0, len(w.Days))
	for _, d := range w.Days {
		label := d.Date.Format("Mon")
		if d.Date.Format("2006-01-02") == today {
			label = theme.Selected.Render(label)
		} else {
			label = dim.Render(label)
		}

		filled := int(d.Intensity() / 100 * weekBarWidth)
		if d.Active() && filled == 0 {
			filled = 1
		}
		bar := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
			lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", weekBarWidth-filled))

		detail := dim.Render("-")
		if d.Active() {
			detail = fmt.Sprintf("%3dm  %d %s", d.Minutes(), d.Videos, plural(d.Videos, "video", "videos"))
			if len(d.Subjects) > 0 {
				detail += dim.Render("  " + strings.Join(d.Subjects, ", "))
			}
		}
		rows = append(rows, fmt.Sprintf("%s  %s  %s", label, bar, detail))
	}
	return components.Section("This week", strings.Join(rows, "\n"))
}

// renderMonths draws one heat row per month, one cell per day.
func renderMonths(o stats.Overview) string {
	var b strings.Builder
	b.WriteString(theme.Selected.Render("Last 6 months"))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("  %d of %d days active", o.ActiveInMonths(), o.TotalDays())))
	for _, m := range o.Months {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(4).Render(m.Label()))
		for _, d := range m.Days {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.HeatColor(d.Intensity())).Render("■"))
		}
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button, or as plain
// lines when space is short.
func renderMenu(items []string, selected int, cw int, compact bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text)

	var lines []string
	for i, label := range items {
		if i == selected {
			lines = append(lines, selectedBtn.Render("▸ "+label))
		} else {
			lines = append(lines, normalBtn.Render(label))
		}
	}
	sep := "\n"
	if !compact {
		sep = "\n\n"
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, sep))
}

func renderError(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + msg)
}

// renderFrame centers content within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
