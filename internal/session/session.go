// Package session holds the signed-in user of a client process.
//
// A Session has a single writer path (Login, Logout) and any number of
// readers. Token and user are always stored and cleared together.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

var ErrNoSession = errors.New("no stored session")

// State is the persisted blob.
type State struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Storage persists the state between runs.
type Storage interface {
	Load() (State, error) // ErrNoSession when nothing is stored
	Save(State) error
	Clear() error
}

type Session struct {
	mu      sync.RWMutex
	state   State
	storage Storage
}

// New restores a previous session from storage, if one exists. A partial
// or unreadable blob is treated as signed out.
func New(storage Storage) (*Session, error) {
	s := &Session{storage: storage}
	st, err := storage.Load()
	switch {
	case errors.Is(err, ErrNoSession):
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	case st.Token != "" && st.User != nil:
		s.state = st
	}
	return s, nil
}

// Login stores token and user together. Nothing changes in memory when
// persisting fails.
func (s *Session) Login(token string, user *models.User) error {
	if token == "" || user == nil {
		return errors.New("login needs both token and user")
	}
	u := *user
	st := State{Token: token, User: &u}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(st); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.state = st
	return nil
}

// Logout forgets the session. The in-memory state is cleared even when
// storage fails, so the process never keeps acting on a dropped token.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	return s.storage.Clear()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token != "" && s.state.User.IsAdmin()
}
