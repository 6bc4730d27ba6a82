package users

import (
	"context"
	"sync"
	"time"

	"github.com/urgencias/triaged/internal/triage"
)

// MemStore holds staff accounts in memory. Suitable for dev/testing.
type MemStore struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string // normalized email -> user ID
}

// NewMemStore initializes a new in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

// Create inserts a user, rejecting duplicate emails with triage.ErrConflict.
func (s *MemStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return triage.ErrConflict
	}
	cp := *u
	s.byID[cp.ID] = &cp
	s.byEmail[cp.Email] = cp.ID
	return nil
}

// GetByEmail retrieves a user by normalized email. Returns a copy.
func (s *MemStore) GetByEmail(_ context.Context, email string) (*User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, false, nil
	}
	cp := *s.byID[id]
	return &cp, true, nil
}

// Deactivate marks an account inactive. Missing IDs are ignored.
func (s *MemStore) Deactivate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		u.Active = false
	}
}

// Touch records a successful login time.
func (s *MemStore) Touch(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return triage.ErrNotFound
	}
	u.LastAccess = at
	return nil
}
