// Package sprint assigns calendar dates to fixed-length periods anchored at
// a configured start date.
package sprint

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/faizmokh/worklog/internal/logbook"
)

// DefaultLength is the sprint length in days when none is configured.
const DefaultLength = 14

// ErrInvalidLength is returned for a sprint length that is not positive.
var ErrInvalidLength = errors.New("sprint length must be positive")

// Config anchors sprint 0 at Start. Dates before Start get negative indices.
type Config struct {
	Start  time.Time
	Length int
}

// Validate checks the length invariant.
func (c Config) Validate() error {
	if c.Length <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, c.Length)
	}
	return nil
}

// Period is one sprint with inclusive bounds.
type Period struct {
	Index int
	Start time.Time
	End   time.Time
}

// Contains reports whether date's calendar day lies within the period.
func (p Period) Contains(date time.Time) bool {
	day := logbook.DateOf(date)
	return !day.Before(p.Start) && !day.After(p.End)
}

// IndexFor returns floor((date - start) / length) in whole calendar days.
func IndexFor(date time.Time, cfg Config) int {
	days := dayNumber(date) - dayNumber(cfg.Start)
	return floorDiv(days, cfg.Length)
}

// Bounds returns the first and last day of sprint index.
func Bounds(index int, cfg Config) (time.Time, time.Time) {
	start := logbook.DateOf(cfg.Start).AddDate(0, 0, index*cfg.Length)
	end := start.AddDate(0, 0, cfg.Length-1)
	return start, end
}

// PeriodAt is Bounds wrapped in a Period.
func PeriodAt(index int, cfg Config) Period {
	start, end := Bounds(index, cfg)
	return Period{Index: index, Start: start, End: end}
}

// Current returns the period containing today.
func Current(today time.Time, cfg Config) Period {
	return PeriodAt(IndexFor(today, cfg), cfg)
}

// Periods enumerates the count periods ending with index last, oldest first.
func Periods(last, count int, cfg Config) []Period {
	if count <= 0 {
		return nil
	}
	periods := make([]Period, 0, count)
	for i := last - count + 1; i <= last; i++ {
		periods = append(periods, PeriodAt(i, cfg))
	}
	return periods
}

// EntriesIn returns the store's date-ordered entries that fall in sprint index.
func EntriesIn(store *logbook.Store, index int, cfg Config) []*logbook.Entry {
	period := PeriodAt(index, cfg)
	var out []*logbook.Entry
	for _, e := range store.SortedByDate() {
		if period.Contains(e.Time) {
			out = append(out, e)
		}
	}
	return out
}

// DistinctTickets returns the unique non-empty tickets, compared exactly and
// sorted ascending.
func DistinctTickets(entries []*logbook.Entry) []string {
	seen := make(map[string]struct{})
	var tickets []string
	for _, e := range entries {
		if e.Ticket == "" {
			continue
		}
		if _, ok := seen[e.Ticket]; ok {
			continue
		}
		seen[e.Ticket] = struct{}{}
		tickets = append(tickets, e.Ticket)
	}
	slices.Sort(tickets)
	return tickets
}

// Summary aggregates one sprint's entries.
type Summary struct {
	Period       Period
	Entries      int
	Ongoing      int
	TotalMinutes int
	Tickets      []string
}

// Summarize computes the summary for sprint index.
func Summarize(store *logbook.Store, index int, cfg Config) Summary {
	entries := EntriesIn(store, index, cfg)
	summary := Summary{
		Period:  PeriodAt(index, cfg),
		Entries: len(entries),
		Tickets: DistinctTickets(entries),
	}
	for _, e := range entries {
		minutes, ok := e.Duration.Minutes()
		if !ok {
			summary.Ongoing++
			continue
		}
		summary.TotalMinutes += minutes
	}
	return summary
}

func dayNumber(t time.Time) int {
	return int(logbook.DateOf(t).Unix() / 86400)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
