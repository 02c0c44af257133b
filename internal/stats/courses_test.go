package stats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen/internal/library"
	"github.com/lumenlearn/lumen/internal/store"
)

func courseDeck() *library.Deck {
	return &library.Deck{Videos: []library.Video{
		{Title: "Piaget", Source: "Psychology", Sentences: []library.Sentence{"a"}},
		{Title: "Neurons", Source: "Biology", Sentences: []library.Sentence{"b"}},
		{Title: "Memory", Source: "Psychology", Sentences: []library.Sentence{"c"}},
		{Title: "Loose", Sentences: []library.Sentence{"d"}},
	}}
}

func courseView(title, source string, completed bool) store.ViewEvent {
	return store.ViewEvent{ViewEventData: store.ViewEventData{Title: title, Source: source, Completed: completed}}
}

func TestCourses(t *testing.T) {
	got := Courses(courseDeck(), []store.ViewEvent{
		courseView("Piaget", "Psychology", true),
		courseView("Piaget", "Psychology", true),
		courseView("Memory", "Psychology", false),
		courseView("Neurons", "Biology", true),
		courseView("Neurons", "Chemistry", true),
	})
	require.Len(t, got, 2)

	psych := got[0]
	assert.Equal(t, "Psychology", psych.Source)
	assert.Equal(t, 2, psych.Videos)
	assert.Equal(t, 1, psych.Completed)
	assert.Equal(t, 50.0, psych.Percent())
	assert.Equal(t, 2, psych.Next)
	assert.Equal(t, "Memory", psych.NextTitle)
	assert.False(t, psych.Done())

	bio := got[1]
	assert.Equal(t, "Biology", bio.Source)
	assert.Equal(t, 100.0, bio.Percent())
	assert.True(t, bio.Done())
}

func TestCoursesNilDeck(t *testing.T) {
	assert.Nil(t, Courses(nil, nil))
	assert.Zero(t, Course{}.Percent())
}

func TestLoadCourses(t *testing.T) {
	st, err := store.OpenPath(filepath.Join(t.TempDir(), "courses.db"))
	require.NoError(t, err)
	defer st.Close()

	repo := st.EventRepo()
	ctx := context.Background()
	require.NoError(t, repo.AppendView(ctx, store.ViewEventData{Title: "Memory", Source: "Psychology", Completed: true}))

	got, err := LoadCourses(ctx, repo, courseDeck())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Completed)
	assert.Equal(t, "Piaget", got[0].NextTitle)
}
