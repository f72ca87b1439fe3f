// Package session keeps the signed-in user for the lifetime of the process
// and persists it between runs in the local metadata store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobtracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

const userKey = "user"

// State is the process-wide session. It is passed explicitly to the
// components that need the acting user or the access token.
type State struct {
	mu   sync.RWMutex
	repo metadata.Repository
	user *domain.User
}

func New(repo metadata.Repository) *State {
	return &State{repo: repo}
}

// Init restores a previously saved user, if any.
func (s *State) Init(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, userKey)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if raw == nil {
		s.user = nil
		return nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	if u.ID == "" {
		s.user = nil
		return nil
	}
	s.user = &u
	return nil
}

// Save makes u the current user and persists it.
func (s *State) Save(ctx context.Context, u domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Set(ctx, userKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return nil
}

// Clear forgets the current user and wipes everything persisted locally.
// The in-memory user is dropped even when the store fails.
func (s *State) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// User returns a copy of the current user.
func (s *State) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *State) LoggedIn() bool {
	_, ok := s.User()
	return ok
}

// UserID is empty when nobody is signed in.
func (s *State) UserID() string {
	u, _ := s.User()
	return u.ID
}

func (s *State) AccessToken() string {
	u, _ := s.User()
	return u.Token
}
