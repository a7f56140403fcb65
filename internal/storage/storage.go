// Package storage persists log records as JSON or in SQLite.
package storage

import (
	"context"
	"fmt"

	"github.com/faizmokh/worklog/internal/config"
	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
)

// Provider loads and saves the full record sequence in insertion order.
type Provider interface {
	LoadRecords(ctx context.Context) ([]logbook.Record, error)
	SaveRecords(ctx context.Context, records []logbook.Record) error
	Close() error
}

// Open returns the provider for backend.
func Open(ctx context.Context, manager *files.Manager, backend string) (Provider, error) {
	switch backend {
	case "", config.BackendJSON:
		return NewJSONStore(manager), nil
	case config.BackendSQLite:
		if err := manager.EnsureBase(); err != nil {
			return nil, err
		}
		return OpenSQLiteStore(ctx, manager.DatabasePath())
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}
