// Package inmem provides in-memory storage implementations. State lives
// for the life of the process, matching a bot run without a database.
package inmem

import (
	"context"
	"sync"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

// Compile-time interface verification.
var _ ocrbot.SessionStore = (*SessionStore)(nil)

// SessionStore implements ocrbot.SessionStore with a mutex-guarded map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*ocrbot.Extraction
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*ocrbot.Extraction)}
}

// Put stores the extraction, replacing any previous one for the user.
func (s *SessionStore) Put(ctx context.Context, extraction *ocrbot.Extraction) error {
	if err := extraction.Validate(); err != nil {
		return err
	}

	// Copy so the caller cannot mutate the stored record afterwards.
	stored := *extraction

	s.mu.Lock()
	s.sessions[stored.UserID] = &stored
	s.mu.Unlock()
	return nil
}

// Get retrieves the user's stored extraction.
func (s *SessionStore) Get(ctx context.Context, userID int64) (*ocrbot.Extraction, error) {
	s.mu.RLock()
	stored, ok := s.sessions[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, ocrbot.Errorf(ocrbot.ENOTFOUND, "no extraction stored for user")
	}
	out := *stored
	return &out, nil
}
