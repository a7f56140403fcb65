package logbook

import (
	"slices"
	"time"
)

// Store keeps entries in insertion order. Date-ordered views are derived
// with a stable sort and never reorder the underlying slice.
type Store struct {
	entries []*Entry
}

// NewStore returns a store holding entries in the given order.
func NewStore(entries ...*Entry) *Store {
	return &Store{entries: slices.Clone(entries)}
}

// Add appends an entry.
func (s *Store) Add(entry *Entry) {
	s.entries = append(s.entries, entry)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// All returns the entries in insertion order.
func (s *Store) All() []*Entry {
	return slices.Clone(s.entries)
}

// SortedByDate returns the entries ascending by timestamp; equal timestamps
// keep their insertion order.
func (s *Store) SortedByDate() []*Entry {
	sorted := slices.Clone(s.entries)
	slices.SortStableFunc(sorted, func(a, b *Entry) int {
		return a.Time.Compare(b.Time)
	})
	return sorted
}

// Remove deletes the given entry, matched by identity.
func (s *Store) Remove(entry *Entry) error {
	idx := slices.Index(s.entries, entry)
	if idx < 0 {
		return ErrEntryNotFound
	}
	s.entries = slices.Delete(s.entries, idx, idx+1)
	return nil
}

// Contains reports whether entry is a member of the store.
func (s *Store) Contains(entry *Entry) bool {
	return slices.Contains(s.entries, entry)
}

// EntriesOnDate returns the entries on date's calendar day in date order.
func (s *Store) EntriesOnDate(date time.Time) []*Entry {
	var out []*Entry
	for _, e := range s.SortedByDate() {
		if SameDay(e.Time, date) {
			out = append(out, e)
		}
	}
	return out
}

// EntriesBetween returns entries whose calendar day lies in [from, to].
func (s *Store) EntriesBetween(from, to time.Time) []*Entry {
	from, to = DateOf(from), DateOf(to)
	var out []*Entry
	for _, e := range s.SortedByDate() {
		day := e.Date()
		if !day.Before(from) && !day.After(to) {
			out = append(out, e)
		}
	}
	return out
}

// ReconcileLogTypes applies Entry.ReconcileLogTypes to every entry.
func (s *Store) ReconcileLogTypes(types LogTypes) {
	for _, e := range s.entries {
		e.ReconcileLogTypes(types)
	}
}
