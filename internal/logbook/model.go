package logbook

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Entry is one recorded unit of work. Its timestamp is both the sort key
// and the display key; duplicates are allowed.
type Entry struct {
	Time        time.Time
	Ticket      string
	Description string
	Duration    Duration
	Status      map[string]bool
	Subtasks    []Subtask
}

// Subtask is a line of text owned by an Entry. Position always equals the
// subtask's index in Entry.Subtasks.
type Subtask struct {
	Position int
	Text     string
}

// NewEntry validates and builds an entry. Every configured type gets a
// status key; missing ones default to not completed.
func NewEntry(at time.Time, ticket, description string, duration Duration, types LogTypes, status map[string]bool, subtasks []string) (*Entry, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	for name := range status {
		if !types.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLogType, name)
		}
	}

	entry := &Entry{
		Time:        Wall(at),
		Ticket:      strings.TrimSpace(ticket),
		Description: description,
		Duration:    duration,
		Status:      make(map[string]bool, len(types)),
	}
	maps.Copy(entry.Status, status)
	entry.ReconcileLogTypes(types)

	for _, text := range subtasks {
		if err := entry.AddSubtask(text); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// Date is the calendar day the entry belongs to.
func (e *Entry) Date() time.Time {
	return DateOf(e.Time)
}

// SetStatus marks the entry completed or not for the named log type.
func (e *Entry) SetStatus(types LogTypes, name string, completed bool) error {
	if !types.Has(name) {
		return fmt.Errorf("%w: %q", ErrUnknownLogType, name)
	}
	if e.Status == nil {
		e.Status = make(map[string]bool)
	}
	e.Status[name] = completed
	return nil
}

// Completed reports the stored status for a type; unknown keys are not completed.
func (e *Entry) Completed(name string) bool {
	return e.Status[name]
}

// Incomplete reports whether the entry is not completed in at least one of types.
func (e *Entry) Incomplete(types LogTypes) bool {
	for _, t := range types {
		if !e.Status[t.Name] {
			return true
		}
	}
	return false
}

// ReconcileLogTypes adds a false status for every configured type the entry
// lacks. Keys of types no longer configured are kept.
func (e *Entry) ReconcileLogTypes(types LogTypes) {
	if e.Status == nil {
		e.Status = make(map[string]bool, len(types))
	}
	for _, t := range types {
		if _, ok := e.Status[t.Name]; !ok {
			e.Status[t.Name] = false
		}
	}
}

// SetDescription replaces the description.
func (e *Entry) SetDescription(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyDescription
	}
	e.Description = text
	return nil
}

// SetTicket replaces the ticket identifier. An empty ticket is allowed.
func (e *Entry) SetTicket(ticket string) {
	e.Ticket = strings.TrimSpace(ticket)
}

// SetDuration replaces the duration.
func (e *Entry) SetDuration(d Duration) {
	e.Duration = d
}

// SetTime moves the entry to another timestamp.
func (e *Entry) SetTime(at time.Time) {
	e.Time = Wall(at)
}

// AddSubtask appends a subtask.
func (e *Entry) AddSubtask(text string) error {
	return e.InsertSubtask(len(e.Subtasks), text)
}

// InsertSubtask places a subtask at position, shifting later ones up.
// position may equal the current count to append.
func (e *Entry) InsertSubtask(position int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyDescription
	}
	if position < 0 || position > len(e.Subtasks) {
		return fmt.Errorf("%w: subtask position %d", ErrIndexOutOfRange, position)
	}
	e.Subtasks = append(e.Subtasks, Subtask{})
	copy(e.Subtasks[position+1:], e.Subtasks[position:])
	e.Subtasks[position] = Subtask{Text: text}
	e.renumber()
	return nil
}

// EditSubtask replaces the text of the subtask at index.
func (e *Entry) EditSubtask(index int, text string) error {
	if index < 0 || index >= len(e.Subtasks) {
		return fmt.Errorf("%w: subtask %d", ErrIndexOutOfRange, index)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyDescription
	}
	e.Subtasks[index].Text = text
	return nil
}

// RemoveSubtask deletes the subtask at index and returns it. Later subtasks
// shift down by one.
func (e *Entry) RemoveSubtask(index int) (Subtask, error) {
	if index < 0 || index >= len(e.Subtasks) {
		return Subtask{}, fmt.Errorf("%w: subtask %d", ErrIndexOutOfRange, index)
	}
	removed := e.Subtasks[index]
	e.Subtasks = append(e.Subtasks[:index], e.Subtasks[index+1:]...)
	e.renumber()
	return removed, nil
}

// SubtaskTexts returns the subtask texts in order.
func (e *Entry) SubtaskTexts() []string {
	texts := make([]string, 0, len(e.Subtasks))
	for _, s := range e.Subtasks {
		texts = append(texts, s.Text)
	}
	return texts
}

// Title is the ticket and description joined for display.
func (e *Entry) Title() string {
	if e.Ticket == "" {
		return e.Description
	}
	return e.Ticket + " " + e.Description
}

func (e *Entry) renumber() {
	for i := range e.Subtasks {
		e.Subtasks[i].Position = i
	}
}

// Wall drops the location from t while keeping its wall clock, so that
// timestamps compare as naive calendar values.
func Wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// DateOf returns midnight of t's calendar day.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
