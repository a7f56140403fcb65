package sprint

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/faizmokh/worklog/internal/logbook"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var fortnight = Config{Start: date(2024, time.April, 1), Length: 14}

func TestIndexForScenario(t *testing.T) {
	if got := IndexFor(date(2024, time.April, 10), fortnight); got != 0 {
		t.Fatalf("IndexFor(10.04.2024) = %d, want 0", got)
	}
	if got := IndexFor(date(2024, time.April, 15), fortnight); got != 1 {
		t.Fatalf("IndexFor(15.04.2024) = %d, want 1", got)
	}
	if got := IndexFor(date(2024, time.April, 14), fortnight); got != 0 {
		t.Fatalf("IndexFor(14.04.2024) = %d, want 0", got)
	}
}

func TestIndexForBeforeStartIsNegative(t *testing.T) {
	if got := IndexFor(date(2024, time.March, 31), fortnight); got != -1 {
		t.Fatalf("IndexFor(31.03.2024) = %d, want -1", got)
	}
	if got := IndexFor(date(2024, time.March, 18), fortnight); got != -1 {
		t.Fatalf("IndexFor(18.03.2024) = %d, want -1", got)
	}
	if got := IndexFor(date(2024, time.March, 17), fortnight); got != -2 {
		t.Fatalf("IndexFor(17.03.2024) = %d, want -2", got)
	}
}

func TestIndexForIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, time.April, 14, 23, 59, 59, 0, time.UTC)
	if got := IndexFor(late, fortnight); got != 0 {
		t.Fatalf("IndexFor(late 14.04) = %d, want 0", got)
	}
	loc := time.FixedZone("UTC-10", -10*3600)
	local := time.Date(2024, time.April, 15, 1, 0, 0, 0, loc)
	if got := IndexFor(local, fortnight); got != 1 {
		t.Fatalf("IndexFor(local 15.04) = %d, want 1", got)
	}
}

func TestIndexShiftsByOnePerLength(t *testing.T) {
	configs := []Config{fortnight, {Start: date(2023, time.December, 28), Length: 7}, {Start: date(2024, time.February, 29), Length: 1}, {Start: date(2025, time.January, 6), Length: 10}}
	for _, cfg := range configs {
		for offset := -60; offset <= 60; offset++ {
			d := date(2024, time.March, 1).AddDate(0, 0, offset)
			next := d.AddDate(0, 0, cfg.Length)
			if IndexFor(d, cfg) != IndexFor(next, cfg)-1 {
				t.Fatalf("cfg %+v: IndexFor(%s)=%d, IndexFor(%s)=%d", cfg, d, IndexFor(d, cfg), next, IndexFor(next, cfg))
			}
		}
	}
}

func TestBoundsAreInclusive(t *testing.T) {
	start, end := Bounds(1, fortnight)
	if !start.Equal(date(2024, time.April, 15)) || !end.Equal(date(2024, time.April, 28)) {
		t.Fatalf("Bounds(1) = %s..%s", start, end)
	}
	start, end = Bounds(-1, fortnight)
	if !start.Equal(date(2024, time.March, 18)) || !end.Equal(date(2024, time.March, 31)) {
		t.Fatalf("Bounds(-1) = %s..%s", start, end)
	}
	for i := -3; i <= 3; i++ {
		s, e := Bounds(i, fortnight)
		if IndexFor(s, fortnight) != i || IndexFor(e, fortnight) != i {
			t.Fatalf("bounds of %d map to %d/%d", i, IndexFor(s, fortnight), IndexFor(e, fortnight))
		}
	}
}

func TestValidateRejectsNonPositiveLength(t *testing.T) {
	if err := (Config{Start: date(2024, 1, 1), Length: 0}).Validate(); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("Validate error = %v, want ErrInvalidLength", err)
	}
	if err := fortnight.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestPeriodsEnumeratesOldestFirst(t *testing.T) {
	periods := Periods(1, 3, fortnight)
	if len(periods) != 3 {
		t.Fatalf("len = %d, want 3", len(periods))
	}
	for i, want := range []int{-1, 0, 1} {
		if periods[i].Index != want {
			t.Fatalf("periods[%d].Index = %d, want %d", i, periods[i].Index, want)
		}
	}
	if Periods(0, 0, fortnight) != nil {
		t.Fatalf("Periods with zero count should be nil")
	}
	if cur := Current(date(2024, time.April, 20), fortnight); cur.Index != 1 {
		t.Fatalf("Current().Index = %d, want 1", cur.Index)
	}
}

func TestEntriesInAndDistinctTickets(t *testing.T) {
	types := logbook.LogTypes{{Name: "jira"}}
	mk := func(at time.Time, ticket, d string) *logbook.Entry {
		e, err := logbook.NewEntry(at, ticket, "work", logbook.MustParseDuration(d), types, nil, nil)
		if err != nil {
			t.Fatalf("NewEntry: %v", err)
		}
		return e
	}
	store := logbook.NewStore(
		mk(time.Date(2024, time.April, 15, 9, 0, 0, 0, time.UTC), "PROJ-2", "1h"),
		mk(time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC), "PROJ-1", "30m"),
		mk(time.Date(2024, time.April, 11, 9, 0, 0, 0, time.UTC), "proj-1", "ongoing"),
		mk(time.Date(2024, time.April, 12, 9, 0, 0, 0, time.UTC), "PROJ-1", "15m"),
		mk(time.Date(2024, time.April, 13, 9, 0, 0, 0, time.UTC), "", "5m"),
	)

	entries := EntriesIn(store, 0, fortnight)
	if len(entries) != 4 {
		t.Fatalf("EntriesIn(0) = %d entries, want 4", len(entries))
	}
	if !entries[0].Time.Before(entries[1].Time) {
		t.Fatalf("EntriesIn should be date ordered")
	}

	tickets := DistinctTickets(entries)
	if !slices.Equal(tickets, []string{"PROJ-1", "proj-1"}) {
		t.Fatalf("DistinctTickets = %v", tickets)
	}

	summary := Summarize(store, 0, fortnight)
	if summary.Entries != 4 || summary.Ongoing != 1 || summary.TotalMinutes != 50 {
		t.Fatalf("Summarize = %+v", summary)
	}
	if next := Summarize(store, 1, fortnight); next.Entries != 1 || next.TotalMinutes != 60 {
		t.Fatalf("Summarize(1) = %+v", next)
	}
}
