package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
	"github.com/faizmokh/worklog/internal/session"
)

var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// now is swapped in tests.
var now = time.Now

func withSession(ctx context.Context, manager *files.Manager, fn func(*session.Session) error) error {
	s, err := session.Open(ctx, manager)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func resolveDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		return logbook.DateOf(now()), nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, dateFlag); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD or DD.MM.YYYY", dateFlag)
}

func resolveTime(date time.Time, timeFlag string) (time.Time, error) {
	if timeFlag == "" {
		current := now()
		return time.Date(date.Year(), date.Month(), date.Day(), current.Hour(), current.Minute(), 0, 0, time.UTC), nil
	}

	parsed, err := time.Parse("15:04", timeFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time: %w", err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), nil
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index <= 0 {
		return 0, fmt.Errorf("index must be a positive integer")
	}
	return index, nil
}

// splitTypes accepts "jira,q" as well as repeated flags.
func splitTypes(values []string) []string {
	var names []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func formatEntry(entry *logbook.Entry, types logbook.LogTypes) string {
	var builder strings.Builder
	builder.Grow(48 + len(entry.Description) + len(types)*8)

	builder.WriteString(entry.Time.Format("2006-01-02 15:04"))
	builder.WriteByte(' ')
	builder.WriteString(entry.Title())
	builder.WriteString(" (")
	builder.WriteString(entry.Duration.String())
	builder.WriteByte(')')

	for _, t := range types {
		mark := ' '
		if entry.Completed(t.Name) {
			mark = 'x'
		}
		fmt.Fprintf(&builder, " [%c] %s", mark, t.Label())
	}
	return builder.String()
}

func printEntry(out io.Writer, index int, entry *logbook.Entry, types logbook.LogTypes) {
	fmt.Fprintf(out, "%d. %s\n", index, formatEntry(entry, types))
	for _, sub := range entry.Subtasks {
		fmt.Fprintf(out, "    %d) %s\n", sub.Position+1, sub.Text)
	}
}

// sortedIndexes maps each entry to its 1-based position in the date-sorted
// view, the index every command accepts.
func sortedIndexes(store *logbook.Store) map[*logbook.Entry]int {
	sorted := store.SortedByDate()
	indexes := make(map[*logbook.Entry]int, len(sorted))
	for i, e := range sorted {
		indexes[e] = i + 1
	}
	return indexes
}

func printMissingDate(cmd *cobra.Command, date time.Time) {
	fmt.Fprintf(cmd.OutOrStdout(), "No entries for %s\n", date.Format("2006-01-02"))
}

// withDate keeps the clock of at and moves it to date's day.
func withDate(at, date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), at.Hour(), at.Minute(), at.Second(), 0, time.UTC)
}
