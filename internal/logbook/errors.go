package logbook

import "errors"

// ErrInvalidDurationFormat is returned when duration text matches neither the
// hour/minute pattern nor the ongoing token.
var ErrInvalidDurationFormat = errors.New("invalid duration format")

// ErrEmptyDescription is returned when an entry or subtask has no text.
var ErrEmptyDescription = errors.New("description is empty")

// ErrUnknownLogType is returned when a status refers to a log type that is not configured.
var ErrUnknownLogType = errors.New("unknown log type")

// ErrIndexOutOfRange indicates the caller referenced an entry or subtask index outside the bounds.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrEntryNotFound is returned when removing an entry that is not in the store.
var ErrEntryNotFound = errors.New("entry not found")

// ErrCorruptEntry is returned when a persisted record lacks a required field.
var ErrCorruptEntry = errors.New("corrupt entry")
