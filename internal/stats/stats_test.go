package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen/internal/store"
)

// Wednesday.
var now = time.Date(2026, time.March, 18, 15, 0, 0, 0, time.UTC)

func view(at time.Time, d time.Duration, source string) store.ViewEvent {
	return store.ViewEvent{
		EventMeta:     store.EventMeta{Timestamp: at},
		ViewEventData: store.ViewEventData{Duration: d, Source: source},
	}
}

func TestWeekStart(t *testing.T) {
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), WeekStart(now))

	sunday := time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
}

func TestBuildWeek(t *testing.T) {
	events := []store.ViewEvent{
		view(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), 10*time.Minute, "History"),
		view(time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC), 20*time.Minute, "Psychology"),
		view(time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC), 25*time.Minute, "Math"),
		view(time.Date(2026, 3, 16, 11, 0, 0, 0, time.UTC), 30*time.Second, "Psychology"),
		// previous week
		view(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), 5*time.Minute, "History"),
	}

	o := Build(events, now)
	days := o.Week.Days

	assert.Equal(t, time.Sunday, days[0].Date.Weekday())
	assert.Equal(t, time.Saturday, days[6].Date.Weekday())

	assert.Equal(t, 10, days[0].Minutes())
	assert.Equal(t, 1, days[0].Videos)

	assert.Equal(t, 45, days[1].Minutes())
	assert.Equal(t, 3, days[1].Videos)
	assert.Equal(t, []string{"Math", "Psychology"}, days[1].Subjects)

	assert.False(t, days[2].Active())
	assert.Equal(t, 2, o.ActiveThisWeek())
}

func TestBuildMonths(t *testing.T) {
	events := []store.ViewEvent{
		view(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), 90*time.Minute, "Math"),
		view(time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC), 30*time.Minute, "Math"),
		// outside the window
		view(time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC), 30*time.Minute, "Math"),
	}

	o := Build(events, now)
	require.Len(t, o.Months, MonthsShown)
	assert.Equal(t, "Oct", o.Months[0].Label())
	assert.Equal(t, "Mar", o.Months[5].Label())
	assert.Len(t, o.Months[0].Days, 31)
	assert.Len(t, o.Months[4].Days, 28)
	assert.Equal(t, 31+30+31+31+28+31, o.TotalDays())

	assert.Equal(t, 100.0, o.Months[5].Days[0].Intensity())
	assert.Equal(t, 50.0, o.Months[0].Days[30].Intensity())
	assert.Equal(t, 2, o.ActiveInMonths())
}

func TestIntensity(t *testing.T) {
	assert.Equal(t, 0.0, Intensity(0))
	assert.InDelta(t, 25.0, Intensity(15*time.Minute), 1e-9)
	assert.Equal(t, 100.0, Intensity(60*time.Minute))
	assert.Equal(t, 100.0, Intensity(3*time.Hour))
}

func TestBuckettingUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	local := now.In(loc)
	// 02:00 UTC on Tuesday is still Monday evening at UTC-5.
	e := view(time.Date(2026, 3, 17, 2, 0, 0, 0, time.UTC), 10*time.Minute, "Math")

	o := Build([]store.ViewEvent{e}, local)
	assert.Equal(t, 1, o.Week.Days[time.Monday].Videos)
	assert.Equal(t, 0, o.Week.Days[time.Tuesday].Videos)
}

func TestRangeStart(t *testing.T) {
	assert.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), RangeStart(now))
}

func TestLoad(t *testing.T) {
	s, err := store.OpenPath(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	repo := s.EventRepo()
	require.NoError(t, repo.AppendView(ctx, store.ViewEventData{Title: "t", Source: "Psychology", Duration: 2 * time.Minute}))

	o, err := Load(ctx, repo, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, o.ActiveThisWeek())
}
