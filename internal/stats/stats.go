// Package stats aggregates log entries over recent workdays.
package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/faizmokh/worklog/internal/logbook"
)

// ErrInvalidCount is returned when a non-positive number of workdays is requested.
var ErrInvalidCount = errors.New("workday count must be positive")

// TypeCounts tallies entries for one log type on one day.
type TypeCounts struct {
	Completed    int
	NotCompleted int
}

// DayStats holds the aggregates for a single workday.
type DayStats struct {
	Date         time.Time
	Entries      int
	Ongoing      int
	TotalMinutes int
	Types        map[string]TypeCounts
	Incomplete   []*logbook.Entry
}

// Hours returns TotalMinutes in fractional hours.
func (d DayStats) Hours() float64 {
	return float64(d.TotalMinutes) / 60
}

// IsWorkday reports whether date is neither Saturday nor Sunday.
func IsWorkday(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// LastNWorkdays walks back from reference (inclusive) skipping weekends and
// returns n dates oldest first.
func LastNWorkdays(reference time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	days := make([]time.Time, n)
	current := logbook.DateOf(reference)
	for i := n - 1; i >= 0; {
		if IsWorkday(current) {
			days[i] = current
			i--
		}
		current = current.AddDate(0, 0, -1)
	}
	return days, nil
}

// Aggregate computes DayStats for every workday, keyed by logbook.DateOf.
// Days without entries are present with zero totals. Ongoing durations are
// skipped, never summed.
func Aggregate(store *logbook.Store, workdays []time.Time, types logbook.LogTypes) map[time.Time]DayStats {
	result := make(map[time.Time]DayStats, len(workdays))
	for _, day := range workdays {
		key := logbook.DateOf(day)
		stats := DayStats{
			Date:       key,
			Types:      make(map[string]TypeCounts, len(types)),
			Incomplete: []*logbook.Entry{},
		}
		for _, t := range types {
			stats.Types[t.Name] = TypeCounts{}
		}

		for _, entry := range store.EntriesOnDate(key) {
			stats.Entries++
			if minutes, ok := entry.Duration.Minutes(); ok {
				stats.TotalMinutes += minutes
			} else {
				stats.Ongoing++
			}
			for _, t := range types {
				counts := stats.Types[t.Name]
				if entry.Completed(t.Name) {
					counts.Completed++
				} else {
					counts.NotCompleted++
				}
				stats.Types[t.Name] = counts
			}
			if entry.Incomplete(types) {
				stats.Incomplete = append(stats.Incomplete, entry)
			}
		}
		result[key] = stats
	}
	return result
}

// Ordered returns the stats for workdays in the given order.
func Ordered(report map[time.Time]DayStats, workdays []time.Time) []DayStats {
	out := make([]DayStats, 0, len(workdays))
	for _, day := range workdays {
		if s, ok := report[logbook.DateOf(day)]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Summary totals a report across all of its days.
type Summary struct {
	Days         int
	Entries      int
	TotalMinutes int
	Types        map[string]TypeCounts
	Incomplete   int
}

// Totals sums every day of the report.
func Totals(report map[time.Time]DayStats) Summary {
	summary := Summary{Types: make(map[string]TypeCounts)}
	for _, day := range report {
		summary.Days++
		summary.Entries += day.Entries
		summary.TotalMinutes += day.TotalMinutes
		summary.Incomplete += len(day.Incomplete)
		for name, counts := range day.Types {
			total := summary.Types[name]
			total.Completed += counts.Completed
			total.NotCompleted += counts.NotCompleted
			summary.Types[name] = total
		}
	}
	return summary
}

// AverageHours is the mean hours per day of the summary.
func (s Summary) AverageHours() float64 {
	if s.Days == 0 {
		return 0
	}
	return float64(s.TotalMinutes) / 60 / float64(s.Days)
}
