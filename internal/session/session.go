// Package session holds the authenticated actor of the CLI: an opaque token
// and a role, persisted so the session survives between invocations.
package session

import (
	"fmt"
	"sync"
)

// Role distinguishes administrators from regular users.
type Role int

const (
	RoleNone  Role = 0
	RoleAdmin Role = 1
	RoleUser  Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	case RoleNone:
		return "none"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// State is the persisted form of a session.
type State struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// Persister loads and saves session state.
type Persister interface {
	Load() (State, error)
	Save(State) error
}

// Store is the process-wide session. It is created empty and only changed
// through Set and Clear; every change is written through to the persister.
type Store struct {
	mu        sync.RWMutex
	state     State
	persister Persister
}

// New returns an empty store backed by p. A nil persister keeps the session in memory.
func New(p Persister) *Store {
	if p == nil {
		p = &Memory{}
	}
	return &Store{persister: p}
}

// Load rehydrates the store from its persister.
func (s *Store) Load() error {
	st, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// Set replaces token and role together.
func (s *Store) Set(token string, role Role) error {
	return s.replace(State{Token: token, Role: role})
}

// Clear resets the session to the empty token and RoleNone.
func (s *Store) Clear() error {
	return s.replace(State{})
}

func (s *Store) replace(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	if err := s.persister.Save(st); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Store) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Role
}

// State returns a copy of the current session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LoggedIn reports whether a token is present. The token is never validated.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}
