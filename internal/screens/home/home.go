// Package home is the landing tab: activity overview and shortcuts to the
// other tabs.
package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/library"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/stats"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/layout"
)

// statsMsg carries a freshly loaded overview.
type statsMsg struct {
	overview stats.Overview
	summary  store.Summary
	courses  []stats.Course
	err      error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu       components.Menu
	menuLabels []string
	repo       store.EventRepo
	deck       *library.Deck
	log        *logger.Logger
	now        func() time.Time

	overview stats.Overview
	summary  store.Summary
	courses  []stats.Course
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. repo may be nil, in which case the overview
// stays empty. deck feeds the Continue Learning cards and may be nil.
func New(repo store.EventRepo, deck *library.Deck, log *logger.Logger) *HomeScreen {
	if log == nil {
		log = logger.Nop()
	}
	menuLabels := []string{"UPLOAD PDF", "CONTINUE LEARNING", "ASK ASSISTANT", "QUIT"}
	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd { return router.SwitchTab(router.TabUpload) }},
		{Label: menuLabels[1], Action: func() tea.Cmd { return router.SwitchTab(router.TabLearn) }},
		{Label: menuLabels[2], Action: func() tea.Cmd { return router.SwitchTab(router.TabChat) }},
		{Label: menuLabels[3], Action: func() tea.Cmd { return tea.Quit }},
	}

	h := &HomeScreen{
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
		repo:       repo,
		deck:       deck,
		log:        log,
		now:        time.Now,
	}
	h.overview = stats.Build(nil, h.now())
	h.courses = stats.Courses(deck, nil)
	return h
}

// Init reloads the overview each time the tab is shown.
func (h *HomeScreen) Init() tea.Cmd {
	if h.repo == nil {
		return nil
	}
	repo, deck, now := h.repo, h.deck, h.now()
	return func() tea.Msg {
		ctx := context.Background()
		overview, err := stats.Load(ctx, repo, now)
		if err != nil {
			return statsMsg{err: err}
		}
		courses, err := stats.LoadCourses(ctx, repo, deck)
		if err != nil {
			return statsMsg{err: err}
		}
		summary, err := repo.Summary(ctx)
		return statsMsg{overview: overview, summary: summary, courses: courses, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsMsg); ok {
		if m.err != nil {
			h.log.Warn("load home stats failed", "error", m.err)
			h.errMsg = "Could not load your activity."
			return h, nil
		}
		h.overview = m.overview
		h.summary = m.summary
		h.courses = m.courses
		h.loaded = true
		h.errMsg = ""
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+8) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderStatsBar(h.summary, h.overview, cw))
	if h.errMsg != "" {
		sections = append(sections, renderError(h.errMsg, cw))
	}
	if len(h.courses) > 0 {
		sections = append(sections, components.Card(renderCourses(h.courses, cw-4, compact), cw))
	}
	sections = append(sections, components.Card(renderWeek(h.overview.Week, h.now()), cw))
	if !compact {
		sections = append(sections, components.Card(renderMonths(h.overview), cw))
	}
	sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw, compact))

	return renderFrame(strings.Join(sections, "\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Tab", Description: "Switch tab"},
		{Key: "q", Description: "Quit"},
	}
}
