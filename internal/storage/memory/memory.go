// Package memory provides an in-process implementation of storage.Store.
// State lives only as long as the process.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu    sync.Mutex
	snap  models.Snapshot
	saves int
}

func New() *Store {
	return &Store{}
}

func (s *Store) SaveSnapshot(_ context.Context, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	s.saves++
	return nil
}

func (s *Store) LoadSnapshot(context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone(), nil
}

// Saves reports how many snapshots have been written.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *Store) Close() error { return nil }
