package upload

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/theme"
	"github.com/lumenlearn/lumen/internal/upload"
)

func (s *UploadScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.flow.Stage() {
	case upload.StagePick:
		body = s.viewPick(height)
	case upload.StageSelect:
		body = s.viewSelect()
	case upload.StageProcessing:
		body = s.spinner.View() + " " + theme.Body.Render("Converting "+s.flow.SelectionLabel()+" into videos...")
	default:
		body = theme.Correct.Render("✓ Your videos are ready.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw - 4).Render(s.flow.Stage().Title()))
	b.WriteString("\n\n")
	b.WriteString(body)
	if s.errMsg != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	sections := []string{components.Card(b.String(), cw)}
	if len(s.recent) > 0 && s.flow.Stage() == upload.StagePick {
		sections = append(sections, components.Card(renderRecent(s.recent), cw))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *UploadScreen) viewPick(height int) string {
	s.picker.SetHeight(max(min(height-14, 12), 3))
	return theme.Hint.Render("Choose a PDF from "+s.picker.CurrentDirectory) + "\n\n" + s.picker.View()
}

func (s *UploadScreen) viewSelect() string {
	var b strings.Builder
	b.WriteString(theme.Body.Render("📄 " + s.flow.FileName()))
	b.WriteString("\n\n")

	for row := 0; row*gridColumns < upload.PageCount; row++ {
		cells := make([]string, 0, gridColumns)
		for col := 0; col < gridColumns; col++ {
			i := row*gridColumns + col
			if i >= upload.PageCount {
				break
			}
			cells = append(cells, pageCell(i+1, s.flow.IsSelected(i+1), i == s.cursor))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.flow.SelectionLabel()))
	b.WriteString("\n\n")

	convert := components.NewButton("Convert to Videos", nil)
	convert.Disabled = len(s.flow.Selected()) == 0
	b.WriteString(convert.View())
	return b.String()
}

func pageCell(page int, selected, cursor bool) string {
	mark := "☐"
	style := theme.Unselected
	if selected {
		mark = "☑"
		style = theme.Correct
	}
	border := theme.Border
	if cursor {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(12).
		Align(lipgloss.Center).
		Render(style.Render(fmt.Sprintf("%s Page %d", mark, page)))
}

func renderRecent(events []store.UploadEvent) string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%s  %s  %d/%d pages",
				e.Timestamp.Local().Format("Jan 2 15:04"), e.FileName, e.SelectedPages, e.TotalPages)))
	}
	return components.Section("Recent uploads", strings.Join(lines, "\n"))
}
