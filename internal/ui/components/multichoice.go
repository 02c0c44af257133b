package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. The cursor moves freely;
// Enter or a number key marks the option under it as chosen. Reveal locks
// the component and colours the correct and chosen options.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Cursor       int
	ChosenIndex  int
	Revealed     bool
}

// NewMultiChoice creates a new multiple-choice component with nothing chosen.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", " ", "space":
		m.ChosenIndex = m.Cursor
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(m.Options) {
			m.Cursor = int(key[0] - '1')
			m.ChosenIndex = m.Cursor
		}
	}
	return m, nil
}

// Chosen reports whether an option has been chosen.
func (m MultiChoice) Chosen() bool { return m.ChosenIndex >= 0 }

// Reveal locks the component and shows the correct answer.
func (m *MultiChoice) Reveal() { m.Revealed = true }

// IsCorrect reports whether the chosen option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.ChosenIndex >= 0 && m.ChosenIndex == m.CorrectIndex
}

// View renders the component.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		mark := "○"
		if i == m.ChosenIndex {
			mark = "●"
		}
		prefix := "  "
		if i == m.Cursor && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %d. %s", prefix, mark, i+1, opt)

		var style lipgloss.Style
		switch {
		case m.Revealed && i == m.CorrectIndex:
			style = theme.Correct
		case m.Revealed && i == m.ChosenIndex:
			style = theme.Incorrect
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.ChosenIndex || i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
