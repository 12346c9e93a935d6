// Package session implements the server-side session table. Clients hold an
// opaque cookie token; everything else about the session lives here.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opusnote/opusnote-api/internal/models"
)

// CookieName is the session cookie carried by clients.
const CookieName = "opusnote_session"

type entry struct {
	identity  models.Identity
	expiresAt time.Time
}

// Store maps opaque tokens to authenticated identities with a sliding TTL.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]entry
	now      func() time.Time
}

// NewStore builds a session store whose sessions expire ttl after last use.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

// Create establishes an authenticated session and returns its token.
func (s *Store) Create(identity models.Identity) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.sessions[token] = entry{identity: identity, expiresAt: s.now().Add(s.ttl)}
	return token
}

// Get resolves a token to its identity, sliding the expiry forward on use.
func (s *Store) Get(token string) (models.Identity, bool) {
	if token == "" {
		return models.Identity{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return models.Identity{}, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, token)
		return models.Identity{}, false
	}

	e.expiresAt = s.now().Add(s.ttl)
	s.sessions[token] = e
	return e.identity, true
}

// Delete ends the session for token. Unknown tokens are a no-op.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *Store) purgeLocked() {
	now := s.now()
	for token, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, token)
		}
	}
}
