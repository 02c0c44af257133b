package components

import (
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// ContentWidth returns the inner width shared by stacked cards so they line
// up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a rounded-border box cw columns wide.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 1).
		Render(content)
}

// Section renders a bold heading above body.
func Section(heading, body string) string {
	return theme.Selected.Render(heading) + "\n" + body
}
