package stats

import (
	"context"
	"fmt"

	"github.com/lumenlearn/lumen/internal/library"
	"github.com/lumenlearn/lumen/internal/store"
)

// Course is the deck videos that share a source, with how many of them have
// been watched to the end.
type Course struct {
	Source    string
	Videos    int
	Completed int
	// Next is the deck index of the first video not yet completed, or -1.
	Next      int
	NextTitle string
}

// Percent is the share of completed videos, 0 to 100.
func (c Course) Percent() float64 {
	if c.Videos == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Videos) * 100
}

// Done reports whether every video of the course was completed.
func (c Course) Done() bool { return c.Next < 0 }

// Courses groups deck videos by source in deck order. A video counts as
// completed when a completed view with the same source and title exists.
// Videos without a source are left out.
func Courses(deck *library.Deck, events []store.ViewEvent) []Course {
	if deck == nil {
		return nil
	}
	type key struct{ source, title string }
	done := make(map[key]bool)
	for _, e := range events {
		if e.Completed {
			done[key{e.Source, e.Title}] = true
		}
	}

	index := make(map[string]int)
	var out []Course
	for i, v := range deck.Videos {
		if v.Source == "" {
			continue
		}
		ci, ok := index[v.Source]
		if !ok {
			ci = len(out)
			index[v.Source] = ci
			out = append(out, Course{Source: v.Source, Next: -1})
		}
		c := &out[ci]
		c.Videos++
		if done[key{v.Source, v.Title}] {
			c.Completed++
		} else if c.Next < 0 {
			c.Next = i
			c.NextTitle = v.Title
		}
	}
	return out
}

// LoadCourses queries every completed view and groups deck progress by course.
func LoadCourses(ctx context.Context, repo store.EventRepo, deck *library.Deck) ([]Course, error) {
	events, err := repo.QueryViews(ctx, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return Courses(deck, events), nil
}
