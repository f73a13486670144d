// Package calendar buckets tasks into month/day views.
//
// All bucketing is keyed by a canonical YYYY-MM-DD string derived
// from UTC calendar fields. Task dates arrive as full timestamps
// from the store; using UTC fields on both the bucketing side and
// the per-cell lookup side keeps tasks on the correct day for users
// in any local timezone.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/existflow/daygrid/internal/model"
)

// MaxVisibleTasks is how many tasks a day cell shows before
// collapsing the rest into a "+N more" count.
const MaxVisibleTasks = 3

// DateKey returns the canonical YYYY-MM-DD key for t, computed from
// UTC calendar fields.
func DateKey(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%04d-%02d-%02d", u.Year(), int(u.Month()), u.Day())
}

// KeyFor returns the canonical key for a year/month/day triple.
func KeyFor(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseDateKey parses a canonical date key back into midnight UTC.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return t.UTC(), nil
}

// Bucket groups tasks by canonical date key. Within each day,
// incomplete tasks come before completed ones; ties are broken by
// ascending task ID, a stable creation-order proxy.
func Bucket(tasks []model.Task) map[string][]model.Task {
	buckets := make(map[string][]model.Task)
	for _, t := range tasks {
		key := DateKey(t.Date)
		buckets[key] = append(buckets[key], t)
	}
	for key := range buckets {
		SortDay(buckets[key])
	}
	return buckets
}

// SortDay orders one day's tasks in place: incomplete first, then by ID.
func SortDay(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Completed != tasks[j].Completed {
			return !tasks[i].Completed
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// DaySummary is what a calendar cell displays for one day.
type DaySummary struct {
	Visible   []model.Task // first MaxVisibleTasks after sorting
	Remaining int          // count collapsed into "+N more"
	Total     int
}

// Summarize truncates a day's sorted task list for display.
func Summarize(tasks []model.Task) DaySummary {
	s := DaySummary{Total: len(tasks)}
	if len(tasks) > MaxVisibleTasks {
		s.Visible = tasks[:MaxVisibleTasks]
		s.Remaining = len(tasks) - MaxVisibleTasks
	} else {
		s.Visible = tasks
	}
	return s
}

// Month describes the grid shape of one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t, in UTC.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(first.AddDate(0, -1, 0))
}

// Next returns the following month.
func (m Month) Next() Month {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(first.AddDate(0, 1, 0))
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of day 1 (Sunday = 0), which is
// the number of leading blank cells in a Sunday-first grid.
func (m Month) FirstWeekday() time.Weekday {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// Day returns midnight UTC for a day of the month.
func (m Month) Day(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether a canonical date key falls inside the month.
func (m Month) Contains(key string) bool {
	t, err := ParseDateKey(key)
	if err != nil {
		return false
	}
	return t.Year() == m.Year && t.Month() == m.Month
}

// String formats the month for headers, e.g. "September 2026".
func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}
