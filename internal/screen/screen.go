package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is shown.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Leaver is implemented by screens that hold resources while visible, such as
// running timers. Leave is called when the screen is switched away from or
// closed.
type Leaver interface {
	Leave() tea.Cmd
}

// InputCapturer is implemented by screens with a focused text field. While
// CapturesInput reports true the app does not treat printable keys as
// navigation shortcuts.
type InputCapturer interface {
	CapturesInput() bool
}

// VideoViewedMsg reports that a video played to its last word.
type VideoViewedMsg struct {
	Video int
	Title string
}
