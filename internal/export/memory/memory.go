// Package memory is an in-process mirror used in development and tests when
// no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"roznamcha/internal/core"
)

type Store struct {
	mu         sync.Mutex
	rows       []core.Transaction
	tombstones []int64
}

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, t)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

func (s *Store) AppendTombstone(_ context.Context, id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tombstones = append(s.tombstones, id)
	return fmt.Sprintf("mem:tombstone:%d", len(s.tombstones)), nil
}

// Rows returns a copy of the mirrored entries.
func (s *Store) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.rows...)
}

// Tombstones returns the ids recorded as deleted.
func (s *Store) Tombstones() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.tombstones...)
}
