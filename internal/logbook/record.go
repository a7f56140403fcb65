package logbook

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TimestampLayout is the persisted timestamp format.
const TimestampLayout = "02.01.2006 15:04:05"

// Record is the persisted shape of an Entry. Status stays a map so that an
// absent status can be told apart from an empty one.
type Record struct {
	Timestamp   string          `json:"timestamp" yaml:"timestamp" validate:"required"`
	Ticket      string          `json:"ticket" yaml:"ticket"`
	Description string          `json:"description" yaml:"description" validate:"required"`
	Duration    string          `json:"duration" yaml:"duration" validate:"required"`
	Status      map[string]bool `json:"status" yaml:"status" validate:"required"`
	Subtasks    []string        `json:"subtasks" yaml:"subtasks"`
}

var validate = validator.New()

// Record converts the entry into its persisted shape.
func (e *Entry) Record() Record {
	status := make(map[string]bool, len(e.Status))
	maps.Copy(status, e.Status)
	return Record{
		Timestamp:   e.Time.Format(TimestampLayout),
		Ticket:      e.Ticket,
		Description: e.Description,
		Duration:    e.Duration.String(),
		Status:      status,
		Subtasks:    e.SubtaskTexts(),
	}
}

// EntryFromRecord rebuilds an entry without repairing it: a missing or
// malformed required field yields ErrCorruptEntry.
func EntryFromRecord(r Record) (*Entry, error) {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return nil, fmt.Errorf("%w: missing %s", ErrCorruptEntry, strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}

	description := strings.TrimSpace(r.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: blank description", ErrCorruptEntry)
	}
	at, err := time.Parse(TimestampLayout, r.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp %q: %v", ErrCorruptEntry, r.Timestamp, err)
	}
	duration, err := ParseDuration(r.Duration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}

	entry := &Entry{
		Time:        at,
		Ticket:      r.Ticket,
		Description: description,
		Duration:    duration,
		Status:      make(map[string]bool, len(r.Status)),
	}
	maps.Copy(entry.Status, r.Status)
	for _, text := range r.Subtasks {
		if err := entry.AddSubtask(text); err != nil {
			return nil, fmt.Errorf("%w: subtask: %v", ErrCorruptEntry, err)
		}
	}
	return entry, nil
}

// Restore builds a store from records in order. onCorrupt decides what to do
// with a record that cannot be rebuilt: return nil to skip it, or an error to
// abort. A nil onCorrupt aborts on the first corrupt record.
func Restore(records []Record, onCorrupt func(index int, err error) error) (*Store, error) {
	store := NewStore()
	for i, r := range records {
		entry, err := EntryFromRecord(r)
		if err != nil {
			if onCorrupt == nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			if cbErr := onCorrupt(i, err); cbErr != nil {
				return nil, cbErr
			}
			continue
		}
		store.Add(entry)
	}
	return store, nil
}

// Records returns the persisted shape of every entry in insertion order.
func (s *Store) Records() []Record {
	records := make([]Record, 0, len(s.entries))
	for _, e := range s.entries {
		records = append(records, e.Record())
	}
	return records
}
