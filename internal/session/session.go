// Package session holds the authenticated identity for the current profile.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/internal/models"
	"github.com/rollshouse/storefront/internal/storage"
)

const storageKey = "authUser"

type Store struct {
	storage storage.Store

	mu            sync.Mutex
	restored      bool
	ready         bool
	authenticated bool
	email         string
	name          string
}

func NewStore(st storage.Store) *Store {
	return &Store{storage: st}
}

// Restore loads the persisted session once per process. A failed or empty read
// leaves the session anonymous; the store reports ready either way, so callers
// are never stuck waiting on it.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return
	}
	s.restored = true
	defer func() { s.ready = true }()

	raw, err := s.storage.Get(ctx, storageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.FromContext(ctx).Warn("не удалось восстановить сессию", "error", err)
		}
		return
	}

	var user models.AuthUser
	if err := json.Unmarshal(raw, &user); err != nil {
		logging.FromContext(ctx).Warn("повреждённая запись сессии", "error", err)
		return
	}
	if user.Email == "" || user.Name == "" {
		return
	}
	s.email = user.Email
	s.name = user.Name
	s.authenticated = true
}

// Login sets the identity and persists it. A failed write is logged and the
// in-memory session stays usable for the rest of the process lifetime.
func (s *Store) Login(ctx context.Context, email, name string) {
	s.mu.Lock()
	s.email = email
	s.name = name
	s.authenticated = true
	s.mu.Unlock()

	raw, _ := json.Marshal(models.AuthUser{Email: email, Name: name})
	if err := s.storage.Set(ctx, storageKey, raw); err != nil {
		logging.FromContext(ctx).Warn("не удалось сохранить сессию", "error", err)
	}
}

// Logout clears the identity and removes the persisted record.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.email = ""
	s.name = ""
	s.authenticated = false
	s.mu.Unlock()

	if err := s.storage.Remove(ctx, storageKey); err != nil {
		logging.FromContext(ctx).Warn("не удалось очистить сессию", "error", err)
	}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Store) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// User returns the current identity; both fields are empty when anonymous.
func (s *Store) User() models.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.AuthUser{Email: s.email, Name: s.name}
}
