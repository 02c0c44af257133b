package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/chat"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	chatscreen "github.com/lumenlearn/lumen/internal/screens/chat"
	"github.com/lumenlearn/lumen/internal/screens/home"
	"github.com/lumenlearn/lumen/internal/screens/learn"
	quizscreen "github.com/lumenlearn/lumen/internal/screens/quiz"
	uploadscreen "github.com/lumenlearn/lumen/internal/screens/upload"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/layout"
)

// Options holds the dependencies the screens need.
type Options struct {
	Learn     learn.Options
	EventRepo store.EventRepo
	Assistant *chat.Assistant
	QuizEvery int
	UploadDir string
	Logger    *logger.Logger
}

var tabs = []layout.Tab{
	{Key: "1", Label: "Home"},
	{Key: "2", Label: "Upload"},
	{Key: "3", Label: "Learn"},
	{Key: "4", Label: "Chat"},
}

var tabNames = []string{router.TabHome, router.TabUpload, router.TabLearn, router.TabChat}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	tracker *quiz.Tracker
	repo    store.EventRepo
	log     *logger.Logger
	width   int
	height  int
}

// newAppModel creates the root model with the four tabs.
func newAppModel(opts Options) (AppModel, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	learnOpts := opts.Learn
	learnOpts.EventRepo = opts.EventRepo
	learnOpts.Logger = log.With("screen", "learn")
	learnScreen, err := learn.New(learnOpts)
	if err != nil {
		return AppModel{}, fmt.Errorf("learn screen: %w", err)
	}

	r := router.New(
		router.Entry{Name: router.TabHome, Screen: home.New(opts.EventRepo, opts.Learn.Deck, log)},
		router.Entry{Name: router.TabUpload, Screen: uploadscreen.New(opts.UploadDir, opts.EventRepo, log)},
		router.Entry{Name: router.TabLearn, Screen: learnScreen},
		router.Entry{Name: router.TabChat, Screen: chatscreen.New(opts.Assistant, opts.EventRepo, log)},
	)

	return AppModel{
		router:  r,
		tracker: quiz.NewTracker(opts.QuizEvery),
		repo:    opts.EventRepo,
		log:     log,
	}, nil
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case screen.VideoViewedMsg:
		m.log.Debug("video viewed", "video", msg.Video, "count", m.tracker.Count()+1)
		if m.tracker.Record() && m.router.Depth() == 0 {
			q := quizscreen.New(quiz.Piaget, m.tracker.Count(), m.repo, m.log)
			return m, m.router.Push(q)
		}
		return m, nil

	case tea.KeyPressMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// handleGlobalKey processes navigation keys that apply to every tab.
func (m AppModel) handleGlobalKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit, true
	}
	if m.router.Depth() > 0 {
		return nil, false
	}

	switch key {
	case "tab":
		return m.router.Cycle(1), true
	case "shift+tab":
		return m.router.Cycle(-1), true
	}

	if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturesInput() {
		return nil, false
	}
	switch key {
	case "1", "2", "3", "4":
		return m.router.Switch(tabNames[key[0]-'1']), true
	case "q":
		return tea.Quit, true
	}
	return nil, false
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = "lumen"

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := fmt.Sprintf("▶ %d viewed", m.tracker.Count())
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderTabs(tabs, m.router.ActiveTab(), m.width) + "\n" +
		layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program. Screens holding resources are left after
// the program exits so the last view is recorded.
func Run(opts Options) error {
	model, err := newAppModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model)
	final, err := p.Run()
	if fm, ok := final.(AppModel); ok {
		drain(fm.router.Leave())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

// drain runs cmd and any batched commands synchronously.
func drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(c)
		}
	}
}
