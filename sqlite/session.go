package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

// Compile-time interface verification.
var _ ocrbot.SessionStore = (*SessionStore)(nil)

// SessionStore implements ocrbot.SessionStore using SQLite. Sessions
// survive process restarts, so a save button still works after a deploy.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Put stores the extraction, replacing any previous one for the user.
func (s *SessionStore) Put(ctx context.Context, extraction *ocrbot.Extraction) error {
	if err := extraction.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, text, source, extracted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			text = excluded.text,
			source = excluded.source,
			extracted_at = excluded.extracted_at
	`, extraction.UserID, extraction.Text, string(extraction.Source),
		extraction.ExtractedAt.UTC().Format(time.RFC3339Nano))

	return err
}

// Get retrieves the user's stored extraction.
func (s *SessionStore) Get(ctx context.Context, userID int64) (*ocrbot.Extraction, error) {
	var (
		extraction  ocrbot.Extraction
		source      string
		extractedAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, text, source, extracted_at
		FROM sessions
		WHERE user_id = ?
	`, userID).Scan(&extraction.UserID, &extraction.Text, &source, &extractedAt)

	if err == sql.ErrNoRows {
		return nil, ocrbot.Errorf(ocrbot.ENOTFOUND, "no extraction stored for user")
	}
	if err != nil {
		return nil, err
	}

	extraction.Source = ocrbot.SourceKind(source)
	extraction.ExtractedAt, err = time.Parse(time.RFC3339Nano, extractedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extracted_at: %w", err)
	}

	return &extraction, nil
}
