package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar. Percent is 0..100.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// Filled returns how many of barWidth cells are filled.
func (p ProgressBar) Filled(barWidth int) int {
	filled := int(float64(barWidth) * p.Percent / 100)
	return min(max(filled, 0), barWidth)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}
	barWidth := max(p.Width-lipgloss.Width(result)-percentWidth, 4)

	filled := p.Filled(barWidth)
	result += lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("━", barWidth-filled))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent)))
	}
	return result
}
