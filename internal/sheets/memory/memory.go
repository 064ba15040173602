package memory

import (
	"context"
	"sync"

	"financas/internal/core"
	"financas/internal/sheets"
)

var _ sheets.LedgerStore = (*Store)(nil)

// Store keeps the ledger in process memory. Contents are lost on restart.
type Store struct {
	mu   sync.Mutex
	rows []core.Row
}

func New(rows ...core.Row) *Store {
	return &Store{rows: append([]core.Row(nil), rows...)}
}

// Load returns a copy of the stored rows.
func (s *Store) Load(_ context.Context) ([]core.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Row(nil), s.rows...), nil
}

// Save replaces the stored rows with a copy of rows.
func (s *Store) Save(_ context.Context, rows []core.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]core.Row(nil), rows...)
	return nil
}
