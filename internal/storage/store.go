// Package storage provides abstractions for persisting ledger snapshots.
package storage

import (
	"context"

	"github.com/mmynk/tabsplit/internal/models"
)

// Store persists the complete ledger state.
// This abstraction allows swapping storage backends (memory, SQLite,
// PostgreSQL) without changing the service layer.
type Store interface {
	// SaveSnapshot replaces the stored state with snap in one transaction.
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error

	// LoadSnapshot returns the stored state. An empty store yields an empty
	// snapshot, not an error.
	LoadSnapshot(ctx context.Context) (models.Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
