package quiz

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen/internal/quiz"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/store"
)

func openRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.OpenPath(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func press(s *QuizScreen, k string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch k {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		msg = tea.KeyPressMsg{Code: tea.KeyDown}
	default:
		msg = tea.KeyPressMsg{Code: []rune(k)[0], Text: k}
	}
	_, cmd := s.Update(msg)
	return cmd
}

func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestCheckWithoutSelection(t *testing.T) {
	s := New(quiz.Piaget, 5, nil, nil)

	assert.Nil(t, press(s, "c"))
	assert.Nil(t, s.Result())
	assert.Contains(t, s.View(100, 30), "Select an answer first.")
}

func TestCorrectAnswerIsRecorded(t *testing.T) {
	repo := openRepo(t)
	s := New(quiz.Piaget, 5, repo, nil)

	press(s, "4")
	run(press(s, "c"))

	require.NotNil(t, s.Result())
	assert.True(t, s.Result().Correct)
	assert.Contains(t, s.View(100, 30), "Correct! Great job.")

	events, err := repo.QueryQuiz(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Formal operational stage", events[0].Answer)
	assert.True(t, events[0].Correct)
	assert.Equal(t, quiz.Piaget.ID, events[0].QuestionID)
}

func TestIncorrectAnswerShowsExpected(t *testing.T) {
	s := New(quiz.Piaget, 10, nil, nil)

	press(s, "down")
	press(s, "enter")
	press(s, "enter")

	require.NotNil(t, s.Result())
	assert.False(t, s.Result().Correct)
	assert.Equal(t, "Preoperational stage", s.Result().Answer)
	assert.Contains(t, s.View(100, 30), "Formal operational stage")
}

func TestSelectionLockedAfterCheck(t *testing.T) {
	s := New(quiz.Piaget, 5, nil, nil)
	press(s, "1")
	press(s, "c")

	press(s, "4")
	assert.Equal(t, "Sensorimotor stage", s.Result().Answer)
}

func TestContinueAndSkipPop(t *testing.T) {
	s := New(quiz.Piaget, 5, nil, nil)
	assert.Equal(t, router.PopScreenMsg{}, run(press(s, "esc")))

	s = New(quiz.Piaget, 5, nil, nil)
	press(s, "2")
	press(s, "c")
	assert.Equal(t, router.PopScreenMsg{}, run(press(s, "enter")))
}
