// Package markdown renders the log as monthly Markdown checklists.
package markdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
)

// Export writes one file per month that has entries and returns the paths
// written, oldest month first.
func Export(manager *files.Manager, store *logbook.Store, types logbook.LogTypes) ([]string, error) {
	if manager == nil {
		return nil, fmt.Errorf("export requires a file manager")
	}

	var (
		paths   []string
		month   time.Time
		pending []*logbook.Entry
	)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		path := manager.MonthPath(month)
		if err := manager.WriteFileAtomic(path, []byte(RenderMonth(month, pending, types))); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
		pending = pending[:0]
		return nil
	}

	for _, entry := range store.SortedByDate() {
		m := monthOf(entry.Time)
		if !m.Equal(month) {
			if err := flush(); err != nil {
				return nil, err
			}
			month = m
		}
		pending = append(pending, entry)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return paths, nil
}

// RenderMonth formats entries, already sorted by time, under a month header
// with one heading per day.
func RenderMonth(month time.Time, entries []*logbook.Entry, types logbook.LogTypes) string {
	var b strings.Builder
	b.WriteString(monthHeader(month))

	var day time.Time
	for i, entry := range entries {
		if d := entry.Date(); i == 0 || !d.Equal(day) {
			if i > 0 {
				b.WriteByte('\n')
			}
			day = d
			b.WriteString(dateHeading(day))
			b.WriteByte('\n')
		}
		b.WriteString(formatEntry(entry, types))
		b.WriteByte('\n')
		for _, sub := range entry.Subtasks {
			b.WriteString("  - ")
			b.WriteString(sub.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthHeader(t time.Time) string {
	return fmt.Sprintf("# %s %04d\n\n", t.Month().String(), t.Year())
}

func dateHeading(date time.Time) string {
	return fmt.Sprintf("## %04d-%02d-%02d", date.Year(), date.Month(), date.Day())
}

func formatEntry(entry *logbook.Entry, types logbook.LogTypes) string {
	status := 'x'
	if entry.Incomplete(types) {
		status = ' '
	}

	var builder strings.Builder
	builder.Grow(32 + len(entry.Description) + len(types)*6)
	fmt.Fprintf(&builder, "- [%c] [%s] %s (%s)", status, entry.Time.Format("15:04"), entry.Title(), entry.Duration)
	for _, t := range types {
		if entry.Completed(t.Name) {
			builder.WriteString(" #")
			builder.WriteString(t.Name)
		}
	}
	return builder.String()
}
