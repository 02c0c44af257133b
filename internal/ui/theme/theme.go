package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Heat is the month-view ramp, from no activity to a full hour.
var Heat = []color.Color{
	lipgloss.Color("#1E293B"),
	lipgloss.Color("#3B2F63"),
	lipgloss.Color("#5B3FA0"),
	lipgloss.Color("#7C4FD8"),
	lipgloss.Color("#A78BFA"),
}

// HeatColor picks a Heat entry for an intensity in 0..100.
func HeatColor(intensity float64) color.Color {
	if intensity <= 0 {
		return Heat[0]
	}
	i := 1 + int(intensity/100*float64(len(Heat)-2)+0.5)
	if i >= len(Heat) {
		i = len(Heat) - 1
	}
	return Heat[i]
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	TabActive = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	TabInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Padding(0, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Spoken is the word currently being narrated.
	Spoken = lipgloss.NewStyle().
		Foreground(BgDark).
		Background(Accent).
		Bold(true)

	// Said is narration already spoken in the current sentence.
	Said = lipgloss.NewStyle().
		Foreground(Text)

	// Unsaid is narration still to come.
	Unsaid = lipgloss.NewStyle().
		Foreground(TextDim)

	// Dimmed is a sentence other than the one being narrated.
	Dimmed = lipgloss.NewStyle().
		Foreground(TextDim).
		Faint(true)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(TextDim).
			Padding(0, 2)

	UserBubble = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Padding(0, 1)

	BotBubble = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(Text).
			Padding(0, 1)
)
