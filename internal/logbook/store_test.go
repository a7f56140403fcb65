package logbook

import (
	"errors"
	"testing"
	"time"
)

func TestStoreKeepsInsertionOrderAndSortsStably(t *testing.T) {
	late := newTestEntry(t, time.Date(2024, time.April, 12, 9, 0, 0, 0, time.UTC), "late")
	tieA := newTestEntry(t, time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC), "tie a")
	early := newTestEntry(t, time.Date(2024, time.April, 9, 17, 0, 0, 0, time.UTC), "early")
	tieB := newTestEntry(t, time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC), "tie b")

	store := NewStore()
	for _, e := range []*Entry{late, tieA, early, tieB} {
		store.Add(e)
	}

	assertDescriptions(t, store.All(), "late", "tie a", "early", "tie b")
	assertDescriptions(t, store.SortedByDate(), "early", "tie a", "tie b", "late")
	// Sorting must not disturb insertion order.
	assertDescriptions(t, store.All(), "late", "tie a", "early", "tie b")
}

func TestStoreRemoveByIdentity(t *testing.T) {
	at := time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)
	a := newTestEntry(t, at, "same")
	b := newTestEntry(t, at, "same")
	store := NewStore(a, b)

	if err := store.Remove(b); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Len() != 1 || store.All()[0] != a {
		t.Fatalf("Remove removed the wrong duplicate")
	}
	if err := store.Remove(b); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Remove error = %v, want ErrEntryNotFound", err)
	}
	if store.Contains(b) {
		t.Fatalf("Contains(b) = true after removal")
	}
}

func TestStoreEntriesOnDate(t *testing.T) {
	store := NewStore(
		newTestEntry(t, time.Date(2024, time.April, 10, 15, 0, 0, 0, time.UTC), "afternoon"),
		newTestEntry(t, time.Date(2024, time.April, 11, 8, 0, 0, 0, time.UTC), "next day"),
		newTestEntry(t, time.Date(2024, time.April, 10, 8, 0, 0, 0, time.UTC), "morning"),
	)

	got := store.EntriesOnDate(time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC))
	assertDescriptions(t, got, "morning", "afternoon")

	if got := store.EntriesOnDate(time.Date(2024, time.April, 12, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Fatalf("EntriesOnDate(empty day) = %d entries, want 0", len(got))
	}
}

func TestStoreEntriesBetweenIsInclusive(t *testing.T) {
	store := NewStore(
		newTestEntry(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), "first"),
		newTestEntry(t, time.Date(2024, time.April, 14, 23, 59, 0, 0, time.UTC), "last"),
		newTestEntry(t, time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC), "outside"),
	)
	got := store.EntriesBetween(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, time.April, 14, 0, 0, 0, 0, time.UTC))
	assertDescriptions(t, got, "first", "last")
}

func TestStoreReconcileLogTypes(t *testing.T) {
	store := NewStore(newTestEntry(t, time.Now(), "a"), newTestEntry(t, time.Now(), "b"))
	store.ReconcileLogTypes(LogTypes{{Name: "github"}})
	for _, e := range store.All() {
		if _, ok := e.Status["github"]; !ok {
			t.Fatalf("entry %q missing github status", e.Description)
		}
	}
}

func assertDescriptions(t *testing.T, entries []*Entry, want ...string) {
	t.Helper()
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Description != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, e.Description, want[i])
		}
	}
}
