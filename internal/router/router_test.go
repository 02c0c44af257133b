package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title    string
	inits    int
	leaves   int
	received []tea.Msg
}

type pingMsg struct{}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.received = append(s.received, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Leave() tea.Cmd {
	s.leaves++
	return nil
}

func newTestRouter() (*Router, *stubScreen, *stubScreen) {
	home := &stubScreen{title: "home"}
	learn := &stubScreen{title: "learn"}
	return New(Entry{Name: TabHome, Screen: home}, Entry{Name: TabLearn, Screen: learn}), home, learn
}

func TestSwitchLeavesAndInits(t *testing.T) {
	r, home, learn := newTestRouter()
	r.Init()

	r.Switch(TabLearn)

	if r.ActiveName() != TabLearn {
		t.Errorf("expected active %q, got %q", TabLearn, r.ActiveName())
	}
	if home.leaves != 1 {
		t.Errorf("expected home to be left once, got %d", home.leaves)
	}
	if learn.inits != 1 {
		t.Errorf("expected learn Init once, got %d", learn.inits)
	}
}

func TestSwitchSameOrUnknownIsNoop(t *testing.T) {
	r, home, _ := newTestRouter()

	r.Switch(TabHome)
	r.Switch("nope")

	if home.leaves != 0 {
		t.Errorf("expected no leave, got %d", home.leaves)
	}
	if r.ActiveTab() != 0 {
		t.Errorf("expected tab 0, got %d", r.ActiveTab())
	}
}

func TestCycleWraps(t *testing.T) {
	r, _, _ := newTestRouter()

	r.Cycle(-1)
	if r.ActiveName() != TabLearn {
		t.Errorf("expected wrap to %q, got %q", TabLearn, r.ActiveName())
	}
	r.Cycle(1)
	if r.ActiveName() != TabHome {
		t.Errorf("expected wrap to %q, got %q", TabHome, r.ActiveName())
	}
}

func TestPushPopOverlay(t *testing.T) {
	r, _, _ := newTestRouter()
	quiz := &stubScreen{title: "quiz"}

	r.Push(quiz)
	if r.Depth() != 1 || r.Active().Title() != "quiz" {
		t.Fatalf("expected quiz overlay on top, got depth %d", r.Depth())
	}
	if quiz.inits != 1 {
		t.Error("expected Init() to run on pushed screen")
	}

	r.Pop()
	if r.Depth() != 0 || r.Active().Title() != "home" {
		t.Errorf("expected home after pop, got %q", r.Active().Title())
	}
	if quiz.leaves != 1 {
		t.Error("expected Leave() on popped overlay")
	}
}

func TestPopNoopWithoutOverlay(t *testing.T) {
	r, _, _ := newTestRouter()
	r.Pop()
	if r.Active().Title() != "home" {
		t.Errorf("expected home, got %q", r.Active().Title())
	}
}

func TestKeysGoToTopmostOnly(t *testing.T) {
	r, home, _ := newTestRouter()
	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)

	r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})

	if len(quiz.received) != 1 {
		t.Errorf("expected overlay to get the key, got %d msgs", len(quiz.received))
	}
	if len(home.received) != 0 {
		t.Errorf("expected tab not to get the key, got %d msgs", len(home.received))
	}
}

func TestOtherMessagesBroadcast(t *testing.T) {
	r, home, learn := newTestRouter()
	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)

	r.Update(pingMsg{})

	for _, s := range []*stubScreen{home, learn, quiz} {
		if len(s.received) != 1 {
			t.Errorf("%s: expected broadcast, got %d msgs", s.title, len(s.received))
		}
	}
}

func TestNavigationMessages(t *testing.T) {
	r, _, _ := newTestRouter()

	r.Update(SwitchTabMsg{Name: TabLearn})
	if r.ActiveName() != TabLearn {
		t.Errorf("expected %q, got %q", TabLearn, r.ActiveName())
	}

	r.Update(PushScreenMsg{Screen: &stubScreen{title: "quiz"}})
	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	r.Update(PopScreenMsg{})
	if r.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", r.Depth())
	}
}
