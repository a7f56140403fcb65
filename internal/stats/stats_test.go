package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/faizmokh/worklog/internal/logbook"
)

var types = logbook.LogTypes{{Name: "q", Prefix: "Q"}, {Name: "jira", Prefix: "Jira"}}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustEntry(t *testing.T, at time.Time, description, duration string, status map[string]bool) *logbook.Entry {
	t.Helper()
	e, err := logbook.NewEntry(at, "", description, logbook.MustParseDuration(duration), types, status, nil)
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	return e
}

func TestLastNWorkdaysScenario(t *testing.T) {
	got, err := LastNWorkdays(day(2024, time.April, 26), 3)
	if err != nil {
		t.Fatalf("LastNWorkdays: %v", err)
	}
	want := []time.Time{day(2024, time.April, 24), day(2024, time.April, 25), day(2024, time.April, 26)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("LastNWorkdays mismatch (-want +got):\n%s", diff)
	}
}

func TestLastNWorkdaysSkipsWeekends(t *testing.T) {
	// Sunday reference: the walk starts on the previous Friday.
	got, err := LastNWorkdays(time.Date(2024, time.April, 28, 18, 30, 0, 0, time.UTC), 6)
	if err != nil {
		t.Fatalf("LastNWorkdays: %v", err)
	}
	want := []time.Time{
		day(2024, time.April, 19),
		day(2024, time.April, 22), day(2024, time.April, 23), day(2024, time.April, 24),
		day(2024, time.April, 25), day(2024, time.April, 26),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("LastNWorkdays mismatch (-want +got):\n%s", diff)
	}
}

func TestLastNWorkdaysProperties(t *testing.T) {
	ref := day(2024, time.January, 1)
	for offset := 0; offset < 21; offset++ {
		for n := 1; n <= 12; n++ {
			days, err := LastNWorkdays(ref.AddDate(0, 0, offset), n)
			if err != nil {
				t.Fatalf("LastNWorkdays: %v", err)
			}
			if len(days) != n {
				t.Fatalf("len = %d, want %d", len(days), n)
			}
			for i, d := range days {
				if !IsWorkday(d) {
					t.Fatalf("%s is a weekend day", d)
				}
				if i > 0 && !days[i-1].Before(d) {
					t.Fatalf("days not strictly ascending: %v", days)
				}
			}
		}
	}
}

func TestLastNWorkdaysRejectsNonPositiveCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := LastNWorkdays(day(2024, time.April, 26), n); !errors.Is(err, ErrInvalidCount) {
			t.Fatalf("LastNWorkdays(n=%d) error = %v, want ErrInvalidCount", n, err)
		}
	}
}

func TestAggregateSumsAndExcludesOngoing(t *testing.T) {
	friday := day(2024, time.April, 26)
	store := logbook.NewStore(
		mustEntry(t, friday.Add(9*time.Hour), "review", "1h 30m", map[string]bool{"q": true, "jira": true}),
		mustEntry(t, friday.Add(11*time.Hour), "fix", "45m", map[string]bool{"q": true}),
	)
	workdays, err := LastNWorkdays(friday, 3)
	if err != nil {
		t.Fatalf("LastNWorkdays: %v", err)
	}

	before := Aggregate(store, workdays, types)[friday]
	if before.TotalMinutes != 135 {
		t.Fatalf("TotalMinutes = %d, want 135", before.TotalMinutes)
	}

	store.Add(mustEntry(t, friday.Add(14*time.Hour), "call", "ongoing", nil))
	after := Aggregate(store, workdays, types)[friday]
	if after.TotalMinutes != 135 {
		t.Fatalf("TotalMinutes with ongoing = %d, want 135", after.TotalMinutes)
	}
	if after.Entries != 3 || after.Ongoing != 1 {
		t.Fatalf("Entries/Ongoing = %d/%d, want 3/1", after.Entries, after.Ongoing)
	}
	if got := after.Types["q"]; got != (TypeCounts{Completed: 2, NotCompleted: 1}) {
		t.Fatalf("Types[q] = %+v", got)
	}
	if got := after.Types["jira"]; got != (TypeCounts{Completed: 1, NotCompleted: 2}) {
		t.Fatalf("Types[jira] = %+v", got)
	}
	if len(after.Incomplete) != 2 || after.Incomplete[0].Description != "fix" || after.Incomplete[1].Description != "call" {
		t.Fatalf("Incomplete = %v", after.Incomplete)
	}
}

func TestAggregateIncludesEmptyWorkdays(t *testing.T) {
	store := logbook.NewStore(mustEntry(t, day(2024, time.April, 27).Add(10*time.Hour), "weekend", "2h", nil))
	workdays, _ := LastNWorkdays(day(2024, time.April, 26), 5)
	report := Aggregate(store, workdays, types)
	if len(report) != 5 {
		t.Fatalf("report has %d days, want 5", len(report))
	}
	for _, d := range workdays {
		s, ok := report[d]
		if !ok {
			t.Fatalf("missing day %s", d)
		}
		if s.Entries != 0 || s.TotalMinutes != 0 || len(s.Incomplete) != 0 || s.Incomplete == nil {
			t.Fatalf("day %s = %+v, want zero stats with empty list", d, s)
		}
		if len(s.Types) != len(types) {
			t.Fatalf("day %s types = %v", d, s.Types)
		}
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	store := logbook.NewStore(
		mustEntry(t, day(2024, time.April, 25).Add(9*time.Hour), "a", "1h", map[string]bool{"q": true}),
		mustEntry(t, day(2024, time.April, 26).Add(9*time.Hour), "b", "20m", nil),
		mustEntry(t, day(2024, time.April, 26).Add(8*time.Hour), "c", "ongoing", map[string]bool{"q": true, "jira": true}),
	)
	workdays, _ := LastNWorkdays(day(2024, time.April, 26), 4)

	first := Aggregate(store, workdays, types)
	second := Aggregate(store, workdays, types)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Aggregate not deterministic (-first +second):\n%s", diff)
	}
}

func TestOrderedAndTotals(t *testing.T) {
	store := logbook.NewStore(
		mustEntry(t, day(2024, time.April, 25).Add(9*time.Hour), "a", "1h", map[string]bool{"q": true}),
		mustEntry(t, day(2024, time.April, 26).Add(9*time.Hour), "b", "2h", map[string]bool{"q": true, "jira": true}),
	)
	workdays, _ := LastNWorkdays(day(2024, time.April, 26), 2)
	report := Aggregate(store, workdays, types)

	ordered := Ordered(report, workdays)
	if len(ordered) != 2 || !ordered[0].Date.Equal(workdays[0]) || ordered[1].Hours() != 2 {
		t.Fatalf("Ordered = %+v", ordered)
	}

	totals := Totals(report)
	if totals.Days != 2 || totals.TotalMinutes != 180 || totals.Incomplete != 1 {
		t.Fatalf("Totals = %+v", totals)
	}
	if totals.Types["q"].Completed != 2 || totals.Types["jira"].NotCompleted != 1 {
		t.Fatalf("Totals.Types = %+v", totals.Types)
	}
	if totals.AverageHours() != 1.5 {
		t.Fatalf("AverageHours = %v, want 1.5", totals.AverageHours())
	}
}
