package ocrbot

import (
	"context"
	"time"
)

// SourceKind identifies the container the text was extracted from.
type SourceKind string

// SourceKind values.
const (
	SourceImage SourceKind = "image"
	SourcePDF   SourceKind = "pdf"
	SourceXML   SourceKind = "xml"
)

// Extraction is the per-user record of the most recently extracted text,
// pending an export choice. At most one extraction exists per user at any
// time; a later extraction replaces the previous one unconditionally and
// the record lives until replaced or the process ends.
type Extraction struct {
	UserID      int64      `json:"userId"`
	Text        string     `json:"text"`
	Source      SourceKind `json:"source"`
	ExtractedAt time.Time  `json:"extractedAt"`
}

// Validate returns an error if the extraction contains invalid fields.
func (e *Extraction) Validate() error {
	if e.UserID == 0 {
		return Errorf(EINVALID, "extraction user ID required")
	}
	switch e.Source {
	case SourceImage, SourcePDF, SourceXML:
	default:
		return Errorf(EINVALID, "unknown extraction source %q", e.Source)
	}
	return nil
}

// SessionStore holds the most recent extraction per user.
//
// Put overwrites unconditionally: if a user submits a second file before
// exporting the first, the later write wins regardless of which request
// started first. Get returns ENOTFOUND when the user has no stored
// extraction. Implementations must be safe for concurrent use from
// interleaved handlers; atomic single-key replace is sufficient.
type SessionStore interface {
	Put(ctx context.Context, extraction *Extraction) error
	Get(ctx context.Context, userID int64) (*Extraction, error)
}
