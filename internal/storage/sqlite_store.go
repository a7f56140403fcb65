package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/faizmokh/worklog/internal/logbook"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	position    INTEGER PRIMARY KEY,
	timestamp   TEXT,
	ticket      TEXT,
	description TEXT,
	duration    TEXT,
	status      TEXT,
	subtasks    TEXT
);`

// SQLiteStore keeps one row per record, ordered by insertion position.
// Status and subtasks are JSON text; NULL columns load as absent fields.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// OpenSQLiteStore opens (and migrates) the database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &SQLiteStore{path: path, db: db}, nil
}

// LoadRecords returns every row in position order.
func (s *SQLiteStore) LoadRecords(ctx context.Context) ([]logbook.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT timestamp, ticket, description, duration, status, subtasks FROM entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var records []logbook.Record
	for rows.Next() {
		var (
			timestamp, ticket, description, duration sql.NullString
			status, subtasks                         sql.NullString
		)
		if err := rows.Scan(&timestamp, &ticket, &description, &duration, &status, &subtasks); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		r := logbook.Record{
			Timestamp:   timestamp.String,
			Ticket:      ticket.String,
			Description: description.String,
			Duration:    duration.String,
		}
		if status.Valid {
			if err := json.Unmarshal([]byte(status.String), &r.Status); err != nil {
				return nil, fmt.Errorf("decode status: %w", err)
			}
		}
		if subtasks.Valid {
			if err := json.Unmarshal([]byte(subtasks.String), &r.Subtasks); err != nil {
				return nil, fmt.Errorf("decode subtasks: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return records, nil
}

// SaveRecords replaces all rows in a single transaction.
func (s *SQLiteStore) SaveRecords(ctx context.Context, records []logbook.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (position, timestamp, ticket, description, duration, status, subtasks) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		status, err := json.Marshal(r.Status)
		if err != nil {
			return fmt.Errorf("encode status: %w", err)
		}
		subtasks := r.Subtasks
		if subtasks == nil {
			subtasks = []string{}
		}
		subtaskJSON, err := json.Marshal(subtasks)
		if err != nil {
			return fmt.Errorf("encode subtasks: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, i, r.Timestamp, r.Ticket, r.Description, r.Duration, string(status), string(subtaskJSON)); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
