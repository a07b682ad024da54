package httpapi

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// SessionStore holds per-user OAuth tokens keyed by an opaque session ID
// carried in a cookie. Sessions live for the process lifetime; losing them
// on restart just sends the user back through login.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokens: make(map[string]*oauth2.Token),
	}
}

// Create stores the token under a fresh session ID and returns the ID.
func (s *SessionStore) Create(token *oauth2.Token) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.tokens[id] = token
	s.mu.Unlock()
	return id
}

// Get returns the token for the given session ID, or nil if unknown.
func (s *SessionStore) Get(id string) *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[id]
}

// Delete removes the session. Deleting an unknown ID is a no-op.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.tokens, id)
	s.mu.Unlock()
}
