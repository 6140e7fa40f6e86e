package mock

import (
	"context"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

var _ ocrbot.SessionStore = (*SessionStore)(nil)

// SessionStore is a mock implementation of ocrbot.SessionStore.
type SessionStore struct {
	PutFn func(ctx context.Context, extraction *ocrbot.Extraction) error
	GetFn func(ctx context.Context, userID int64) (*ocrbot.Extraction, error)
}

func (s *SessionStore) Put(ctx context.Context, extraction *ocrbot.Extraction) error {
	return s.PutFn(ctx, extraction)
}

func (s *SessionStore) Get(ctx context.Context, userID int64) (*ocrbot.Extraction, error) {
	return s.GetFn(ctx, userID)
}
