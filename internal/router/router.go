package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/screen"
)

// Tab names.
const (
	TabHome   = "home"
	TabUpload = "upload"
	TabLearn  = "learn"
	TabChat   = "chat"
)

// PushScreenMsg requests the router to open an overlay above the tabs.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to close the topmost overlay.
type PopScreenMsg struct{}

// SwitchTabMsg requests the router to show the named tab.
type SwitchTabMsg struct {
	Name string
}

// SwitchTab returns a command that switches to the named tab.
func SwitchTab(name string) tea.Cmd {
	return func() tea.Msg { return SwitchTabMsg{Name: name} }
}

// Entry binds a tab name to the screen it shows.
type Entry struct {
	Name   string
	Screen screen.Screen
}

// Router shows one tab at a time with a stack of overlays above it.
type Router struct {
	tabs     []Entry
	active   int
	overlays []screen.Screen
}

// New creates a router over tabs. The first tab is active.
func New(tabs ...Entry) *Router {
	return &Router{tabs: tabs}
}

// Init initializes the active tab.
func (r *Router) Init() tea.Cmd {
	if len(r.tabs) == 0 {
		return nil
	}
	return r.tabs[r.active].Screen.Init()
}

// Tabs returns the tab entries in order.
func (r *Router) Tabs() []Entry { return r.tabs }

// ActiveTab returns the index of the visible tab.
func (r *Router) ActiveTab() int { return r.active }

// ActiveName returns the name of the visible tab.
func (r *Router) ActiveName() string {
	if len(r.tabs) == 0 {
		return ""
	}
	return r.tabs[r.active].Name
}

// Switch shows the named tab. The previous tab is left and the new one
// initialized. Unknown names and the current tab are no-ops.
func (r *Router) Switch(name string) tea.Cmd {
	idx := -1
	for i, t := range r.tabs {
		if t.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 || idx == r.active {
		return nil
	}
	leave := leave(r.tabs[r.active].Screen)
	r.active = idx
	return tea.Batch(leave, r.tabs[idx].Screen.Init())
}

// Cycle moves delta tabs forward (or backward), wrapping around.
func (r *Router) Cycle(delta int) tea.Cmd {
	n := len(r.tabs)
	if n == 0 {
		return nil
	}
	next := ((r.active+delta)%n + n) % n
	return r.Switch(r.tabs[next].Name)
}

// Push opens an overlay and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.overlays = append(r.overlays, s)
	return s.Init()
}

// Pop closes the topmost overlay. No-op without overlays.
func (r *Router) Pop() tea.Cmd {
	if len(r.overlays) == 0 {
		return nil
	}
	top := r.overlays[len(r.overlays)-1]
	r.overlays = r.overlays[:len(r.overlays)-1]
	return leave(top)
}

// Active returns the topmost screen: the top overlay or the visible tab.
func (r *Router) Active() screen.Screen {
	if n := len(r.overlays); n > 0 {
		return r.overlays[n-1]
	}
	if len(r.tabs) == 0 {
		return nil
	}
	return r.tabs[r.active].Screen
}

// Depth returns the number of open overlays.
func (r *Router) Depth() int {
	return len(r.overlays)
}

// Update handles navigation messages. Key and mouse input goes to the topmost
// screen only; every other message is broadcast to all tabs and overlays so
// background work (timers, store loads) completes while hidden.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case SwitchTabMsg:
		return r.Switch(msg.Name)
	case tea.KeyMsg, tea.MouseMsg, tea.PasteMsg:
		return r.updateActive(msg)
	}

	var cmds []tea.Cmd
	for i := range r.tabs {
		updated, cmd := r.tabs[i].Screen.Update(msg)
		r.tabs[i].Screen = updated
		cmds = append(cmds, cmd)
	}
	for i := range r.overlays {
		updated, cmd := r.overlays[i].Update(msg)
		r.overlays[i] = updated
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (r *Router) updateActive(msg tea.Msg) tea.Cmd {
	if n := len(r.overlays); n > 0 {
		updated, cmd := r.overlays[n-1].Update(msg)
		r.overlays[n-1] = updated
		return cmd
	}
	if len(r.tabs) == 0 {
		return nil
	}
	updated, cmd := r.tabs[r.active].Screen.Update(msg)
	r.tabs[r.active].Screen = updated
	return cmd
}

// View renders the topmost screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}

// Leave calls Leave on every screen that holds resources.
func (r *Router) Leave() tea.Cmd {
	var cmds []tea.Cmd
	for i := len(r.overlays) - 1; i >= 0; i-- {
		cmds = append(cmds, leave(r.overlays[i]))
	}
	if len(r.tabs) > 0 {
		cmds = append(cmds, leave(r.tabs[r.active].Screen))
	}
	return tea.Batch(cmds...)
}

func leave(s screen.Screen) tea.Cmd {
	if l, ok := s.(screen.Leaver); ok {
		return l.Leave()
	}
	return nil
}
