// Package stats buckets view events into the week and month activity views
// shown on the Home screen.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lumenlearn/lumen/internal/store"
)

// MonthsShown is the number of months in the month view, current included.
const MonthsShown = 6

// FullIntensityMinutes is the daily study time that renders at 100%.
const FullIntensityMinutes = 60

// Day aggregates the views of one calendar day.
type Day struct {
	Date     time.Time
	Watched  time.Duration
	Videos   int
	Subjects []string
}

// Minutes returns whole minutes watched.
func (d Day) Minutes() int { return int(d.Watched / time.Minute) }

// Active reports whether anything was watched that day.
func (d Day) Active() bool { return d.Videos > 0 || d.Watched > 0 }

// Intensity is min(minutes/60×100, 100).
func (d Day) Intensity() float64 {
	return Intensity(d.Watched)
}

// Intensity maps a watch time to a 0..100 heat value.
func Intensity(watched time.Duration) float64 {
	v := watched.Minutes() / FullIntensityMinutes * 100
	if v > 100 {
		return 100
	}
	return v
}

// Week is Sunday through Saturday of one week.
type Week struct {
	Days [7]Day
}

// Month is every day of one calendar month.
type Month struct {
	Start time.Time
	Days  []Day
}

// Label is the short month name.
func (m Month) Label() string { return m.Start.Format("Jan") }

// ActiveDays counts days with activity.
func ActiveDays(days []Day) int {
	n := 0
	for _, d := range days {
		if d.Active() {
			n++
		}
	}
	return n
}

// Overview holds both views for one point in time.
type Overview struct {
	Week   Week
	Months []Month
}

// ActiveThisWeek counts active days in the week view.
func (o Overview) ActiveThisWeek() int { return ActiveDays(o.Week.Days[:]) }

// ActiveInMonths counts active days across the month view.
func (o Overview) ActiveInMonths() int {
	n := 0
	for _, m := range o.Months {
		n += ActiveDays(m.Days)
	}
	return n
}

// TotalDays counts the days in the month view.
func (o Overview) TotalDays() int {
	n := 0
	for _, m := range o.Months {
		n += len(m.Days)
	}
	return n
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Sunday starting now's week.
func WeekStart(now time.Time) time.Time {
	return dayStart(now).AddDate(0, 0, -int(now.Weekday()))
}

// RangeStart returns the first instant covered by Build: the earlier of the
// week start and the first day of the oldest month shown.
func RangeStart(now time.Time) time.Time {
	months := time.Date(now.Year(), now.Month()-MonthsShown+1, 1, 0, 0, 0, 0, now.Location())
	if w := WeekStart(now); w.Before(months) {
		return w
	}
	return months
}

// Build buckets events by local calendar day of now's location.
func Build(events []store.ViewEvent, now time.Time) Overview {
	loc := now.Location()
	byDay := make(map[time.Time]*Day)
	subjects := make(map[time.Time]map[string]bool)

	for _, e := range events {
		key := dayStart(e.Timestamp.In(loc))
		d, ok := byDay[key]
		if !ok {
			d = &Day{Date: key}
			byDay[key] = d
			subjects[key] = make(map[string]bool)
		}
		d.Watched += e.Duration
		d.Videos++
		if e.Source != "" && !subjects[key][e.Source] {
			subjects[key][e.Source] = true
			d.Subjects = append(d.Subjects, e.Source)
		}
	}
	for _, d := range byDay {
		sort.Strings(d.Subjects)
	}

	at := func(date time.Time) Day {
		if d, ok := byDay[date]; ok {
			return *d
		}
		return Day{Date: date}
	}

	var o Overview
	ws := WeekStart(now)
	for i := range o.Week.Days {
		o.Week.Days[i] = at(ws.AddDate(0, 0, i))
	}

	for i := MonthsShown - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, loc)
		m := Month{Start: start}
		for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
			m.Days = append(m.Days, at(d))
		}
		o.Months = append(o.Months, m)
	}
	return o
}

// Load queries the view events Build needs and builds the overview.
func Load(ctx context.Context, repo store.EventRepo, now time.Time) (Overview, error) {
	events, err := repo.QueryViews(ctx, store.QueryOpts{From: RangeStart(now)})
	if err != nil {
		return Overview{}, fmt.Errorf("load stats: %w", err)
	}
	return Build(events, now), nil
}
