// Package quiz is the comprehension-check overlay shown after every few
// viewed videos.
package quiz

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/layout"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

// QuizScreen walks one question through select, check and continue.
type QuizScreen struct {
	attempt  *quiz.Attempt
	choice   components.MultiChoice
	result   *quiz.Result
	errMsg   string
	repo     store.EventRepo
	log      *logger.Logger
	viewedAt int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the overlay for q. viewed is the view count that triggered it.
func New(q quiz.Question, viewed int, repo store.EventRepo, log *logger.Logger) *QuizScreen {
	if log == nil {
		log = logger.Nop()
	}
	correct := 0
	for i := range q.Options {
		if q.IsCorrectOption(i) {
			correct = i
		}
	}
	return &QuizScreen{
		attempt:  quiz.NewAttempt(q),
		choice:   components.NewMultiChoice(q.Prompt, q.Options, correct),
		repo:     repo,
		log:      log,
		viewedAt: viewed,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quick Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.result != nil {
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-4", Description: "Choose"},
		{Key: "c", Description: "Check"},
		{Key: "Esc", Description: "Skip"},
	}
}

// Result returns the graded answer, or nil before checking.
func (s *QuizScreen) Result() *quiz.Result {
	return s.result
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	if s.result != nil {
		switch kmsg.String() {
		case "enter", "space", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "c", "C":
		return s, s.check()
	case "enter":
		if s.choice.Chosen() && s.choice.Cursor == s.choice.ChosenIndex {
			return s, s.check()
		}
	}

	s.choice, _ = s.choice.Update(kmsg)
	if s.choice.Chosen() {
		if err := s.attempt.Select(s.choice.ChosenIndex); err != nil {
			s.errMsg = err.Error()
		} else {
			s.errMsg = ""
		}
	}
	return s, nil
}

func (s *QuizScreen) check() tea.Cmd {
	res, err := s.attempt.Check()
	if err != nil {
		s.errMsg = "Select an answer first."
		return nil
	}
	s.result = &res
	s.errMsg = ""
	s.choice.Reveal()

	if s.repo == nil {
		return nil
	}
	repo, log := s.repo, s.log
	data := store.QuizEventData{QuestionID: res.QuestionID, Answer: res.Answer, Correct: res.Correct}
	return func() tea.Msg {
		if err := repo.AppendQuiz(context.Background(), data); err != nil {
			log.Warn("record quiz answer failed", "error", err)
		}
		return nil
	}
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quick Quiz"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("You've watched %d videos. Check your understanding.", s.viewedAt)))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	switch {
	case s.result != nil && s.result.Correct:
		b.WriteString("\n" + theme.Correct.Render("✓ "+s.result.Feedback()))
	case s.result != nil:
		b.WriteString("\n" + theme.Incorrect.Render("✗ "+s.result.Feedback()))
	case s.errMsg != "":
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Accent).Render(s.errMsg))
	}

	return layout.Center(components.Card(b.String(), cw), width, height)
}
