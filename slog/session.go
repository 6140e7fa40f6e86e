package slog

import (
	"context"
	"log/slog"
	"time"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

// Ensure LoggingSessionStore implements ocrbot.SessionStore.
var _ ocrbot.SessionStore = (*LoggingSessionStore)(nil)

// LoggingSessionStore wraps a SessionStore with per-call logging.
type LoggingSessionStore struct {
	next   ocrbot.SessionStore
	logger *slog.Logger
}

// NewLoggingSessionStore creates a new LoggingSessionStore.
func NewLoggingSessionStore(next ocrbot.SessionStore, logger *slog.Logger) *LoggingSessionStore {
	return &LoggingSessionStore{next: next, logger: logger}
}

// Put delegates to the wrapped store and logs the operation.
func (s *LoggingSessionStore) Put(ctx context.Context, extraction *ocrbot.Extraction) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("session put",
			"user_id", extraction.UserID,
			"source", extraction.Source,
			"text_len", len(extraction.Text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Put(ctx, extraction)
}

// Get delegates to the wrapped store and logs the operation.
func (s *LoggingSessionStore) Get(ctx context.Context, userID int64) (extraction *ocrbot.Extraction, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("session get",
			"user_id", userID,
			"found", extraction != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Get(ctx, userID)
}
