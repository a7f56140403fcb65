package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
)

// JSONStore keeps records as an indented JSON array in logs.json.
type JSONStore struct {
	manager *files.Manager
}

// NewJSONStore wires a store on the manager's logs path.
func NewJSONStore(manager *files.Manager) *JSONStore {
	return &JSONStore{manager: manager}
}

// LoadRecords reads logs.json. A missing file is an empty log.
func (s *JSONStore) LoadRecords(ctx context.Context) ([]logbook.Record, error) {
	if s == nil || s.manager == nil {
		return nil, errors.New("json store not initialized with file manager")
	}
	path := s.manager.LogsPath()
	data, err := s.manager.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []logbook.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// SaveRecords replaces logs.json atomically.
func (s *JSONStore) SaveRecords(ctx context.Context, records []logbook.Record) error {
	if s == nil || s.manager == nil {
		return errors.New("json store not initialized with file manager")
	}
	if records == nil {
		records = []logbook.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	data = append(data, '\n')
	return s.manager.WriteFileAtomic(s.manager.LogsPath(), data)
}

// Close is a no-op.
func (s *JSONStore) Close() error {
	return nil
}
