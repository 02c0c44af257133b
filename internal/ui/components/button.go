package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// Button is a styled button. A disabled button ignores Enter.
type Button struct {
	Label    string
	Disabled bool
	OnPress  func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, OnPress: onPress}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if b.Disabled {
		return b, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" && b.OnPress != nil {
		return b, b.OnPress()
	}
	return b, nil
}

// View renders the button.
func (b Button) View() string {
	if b.Disabled {
		return theme.ButtonInactive.Render(b.Label)
	}
	return theme.ButtonActive.Render("▸ " + b.Label)
}
