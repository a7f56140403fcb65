package logbook

import (
	"errors"
	"slices"
	"testing"
	"time"
)

var testTypes = LogTypes{{Name: "q", Prefix: "Q"}, {Name: "jira", Prefix: "Jira"}}

func newTestEntry(t *testing.T, at time.Time, description string, subtasks ...string) *Entry {
	t.Helper()
	entry, err := NewEntry(at, "", description, MustParseDuration("30m"), testTypes, nil, subtasks)
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	return entry
}

func TestNewEntryDefaultsEveryConfiguredType(t *testing.T) {
	at := time.Date(2024, time.April, 10, 9, 15, 0, 0, time.UTC)
	entry, err := NewEntry(at, " PROJ-7 ", "Fix login", MustParseDuration("1h"), testTypes, map[string]bool{"jira": true}, []string{"write test"})
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if entry.Ticket != "PROJ-7" {
		t.Fatalf("Ticket = %q, want %q", entry.Ticket, "PROJ-7")
	}
	if done, ok := entry.Status["q"]; !ok || done {
		t.Fatalf("Status[q] = %v (present %v), want false present", done, ok)
	}
	if !entry.Status["jira"] {
		t.Fatalf("Status[jira] = false, want true")
	}
	if len(entry.Subtasks) != 1 || entry.Subtasks[0].Text != "write test" {
		t.Fatalf("Subtasks = %#v", entry.Subtasks)
	}
	if !entry.Date().Equal(time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Date() = %s", entry.Date())
	}
}

func TestNewEntryRejectsEmptyDescription(t *testing.T) {
	if _, err := NewEntry(time.Now(), "T-1", "   ", Minutes(5), testTypes, nil, nil); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("NewEntry error = %v, want ErrEmptyDescription", err)
	}
}

func TestNewEntryRejectsUnknownStatusType(t *testing.T) {
	_, err := NewEntry(time.Now(), "", "Review", Minutes(5), testTypes, map[string]bool{"github": true}, nil)
	if !errors.Is(err, ErrUnknownLogType) {
		t.Fatalf("NewEntry error = %v, want ErrUnknownLogType", err)
	}
}

func TestSetStatusValidatesType(t *testing.T) {
	entry := newTestEntry(t, time.Now(), "Deploy")
	if err := entry.SetStatus(testTypes, "q", true); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if !entry.Completed("q") {
		t.Fatalf("Completed(q) = false, want true")
	}
	if err := entry.SetStatus(testTypes, "github", true); !errors.Is(err, ErrUnknownLogType) {
		t.Fatalf("SetStatus error = %v, want ErrUnknownLogType", err)
	}
	if _, ok := entry.Status["github"]; ok {
		t.Fatalf("unknown type must not be written")
	}
}

func TestIncompleteRequiresEveryConfiguredType(t *testing.T) {
	entry := newTestEntry(t, time.Now(), "Plan")
	if !entry.Incomplete(testTypes) {
		t.Fatalf("fresh entry should be incomplete")
	}
	_ = entry.SetStatus(testTypes, "q", true)
	_ = entry.SetStatus(testTypes, "jira", true)
	if entry.Incomplete(testTypes) {
		t.Fatalf("entry completed in all types reported incomplete")
	}
	wider := append(slices.Clone(testTypes), LogType{Name: "github"})
	if !entry.Incomplete(wider) {
		t.Fatalf("type added later should count as not completed")
	}
}

func TestReconcileLogTypesAddsMissingAndKeepsRetired(t *testing.T) {
	entry := newTestEntry(t, time.Now(), "Retro")
	_ = entry.SetStatus(testTypes, "q", true)

	next := LogTypes{{Name: "jira"}, {Name: "github"}}
	entry.ReconcileLogTypes(next)

	if done, ok := entry.Status["github"]; !ok || done {
		t.Fatalf("Status[github] = %v (present %v), want false present", done, ok)
	}
	if !entry.Status["q"] {
		t.Fatalf("retired type status must be retained")
	}
}

func TestSubtaskInsertRemoveKeepsDenseOrder(t *testing.T) {
	entry := newTestEntry(t, time.Now(), "Feature", "a", "b", "c")

	if err := entry.InsertSubtask(1, "x"); err != nil {
		t.Fatalf("InsertSubtask: %v", err)
	}
	assertSubtasks(t, entry, "a", "x", "b", "c")

	removed, err := entry.RemoveSubtask(0)
	if err != nil {
		t.Fatalf("RemoveSubtask: %v", err)
	}
	if removed.Text != "a" {
		t.Fatalf("removed = %q, want %q", removed.Text, "a")
	}
	assertSubtasks(t, entry, "x", "b", "c")

	if _, err := entry.RemoveSubtask(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("RemoveSubtask error = %v, want ErrIndexOutOfRange", err)
	}
	if err := entry.InsertSubtask(5, "y"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("InsertSubtask error = %v, want ErrIndexOutOfRange", err)
	}
	if err := entry.AddSubtask("  "); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("AddSubtask error = %v, want ErrEmptyDescription", err)
	}
	assertSubtasks(t, entry, "x", "b", "c")
}

func TestRemoveThenReaddOnlyChangesOrder(t *testing.T) {
	entry := newTestEntry(t, time.Now(), "Feature", "a", "b", "c", "d")
	removed, err := entry.RemoveSubtask(1)
	if err != nil {
		t.Fatalf("RemoveSubtask: %v", err)
	}
	if err := entry.AddSubtask(removed.Text); err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}
	assertSubtasks(t, entry, "a", "c", "d", "b")

	texts := entry.SubtaskTexts()
	slices.Sort(texts)
	if !slices.Equal(texts, []string{"a", "b", "c", "d"}) {
		t.Fatalf("subtask texts changed: %v", texts)
	}
}

func TestEditSubtask(t *testing.T) {
	entry := newTestEntry(t, time.Now(), "Feature", "a")
	if err := entry.EditSubtask(0, "renamed"); err != nil {
		t.Fatalf("EditSubtask: %v", err)
	}
	assertSubtasks(t, entry, "renamed")
	if err := entry.EditSubtask(1, "z"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("EditSubtask error = %v, want ErrIndexOutOfRange", err)
	}
	if err := entry.EditSubtask(0, ""); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("EditSubtask error = %v, want ErrEmptyDescription", err)
	}
}

func TestSetDescriptionIsAllOrNothing(t *testing.T) {
	entry := newTestEntry(t, time.Now(), "Original")
	if err := entry.SetDescription(""); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("SetDescription error = %v, want ErrEmptyDescription", err)
	}
	if entry.Description != "Original" {
		t.Fatalf("Description = %q, want unchanged", entry.Description)
	}
}

func TestWallKeepsClockAndDropsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	at := time.Date(2024, time.April, 10, 23, 30, 0, 0, loc)
	got := Wall(at)
	want := time.Date(2024, time.April, 10, 23, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Wall() = %s, want %s", got, want)
	}
}

func assertSubtasks(t *testing.T, entry *Entry, want ...string) {
	t.Helper()
	if len(entry.Subtasks) != len(want) {
		t.Fatalf("subtasks = %#v, want %v", entry.Subtasks, want)
	}
	for i, s := range entry.Subtasks {
		if s.Position != i || s.Text != want[i] {
			t.Fatalf("subtask %d = %#v, want {%d %q}", i, s, i, want[i])
		}
	}
}
