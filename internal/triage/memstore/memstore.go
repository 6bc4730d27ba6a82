// Package memstore provides an in-memory implementation of triage.Store.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/urgencias/triaged/internal/triage"
)

// Store holds evaluations in memory. Suitable for dev/testing.
type Store struct {
	mu    sync.RWMutex
	evals map[string]*triage.Evaluation // evaluation ID -> record
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		evals: make(map[string]*triage.Evaluation),
	}
}

// Put stores a copy of the evaluation.
func (s *Store) Put(_ context.Context, ev *triage.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ev
	s.evals[ev.ID] = &cp
	return nil
}

// Get retrieves an evaluation by its ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*triage.Evaluation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.evals[id]
	if !ok {
		return nil, false, nil
	}
	cp := *ev
	return &cp, true, nil
}

// List returns copies of all evaluations, newest first. ULIDs sort
// lexicographically by creation time, so the ID is the ordering key.
func (s *Store) List(_ context.Context) ([]triage.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]triage.Evaluation, 0, len(s.evals))
	for _, ev := range s.evals {
		out = append(out, *ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// UpdateStatus applies a compare-and-swap status change under the store
// lock. The stored status must still equal from or the update is rejected
// with triage.ErrConflict.
func (s *Store) UpdateStatus(_ context.Context, id string, from, to triage.Status, at time.Time) (*triage.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.evals[id]
	if !ok {
		return nil, triage.ErrNotFound
	}
	if ev.Status != from {
		return nil, triage.ErrConflict
	}

	ev.Status = to
	ev.StatusChangedAt = at
	cp := *ev
	return &cp, nil
}
