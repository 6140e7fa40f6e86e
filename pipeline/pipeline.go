// Package pipeline ties classification, extraction and session storage
// together into the single operation the transport layer calls per
// inbound file.
package pipeline

import (
	"context"
	"strings"
	"time"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

// Pipeline routes an uploaded file to the right extractor and stores the
// result for a later export. All collaborators are required.
type Pipeline struct {
	Preprocessor ocrbot.Preprocessor
	Recognizer   ocrbot.Recognizer
	PDF          ocrbot.DocumentExtractor
	XML          ocrbot.DocumentExtractor
	Sessions     ocrbot.SessionStore

	// Languages are the OCR language hints for direct image uploads.
	Languages []string

	// Now is the clock; nil means time.Now. Tests pin it.
	Now func() time.Time
}

// Process classifies the upload, extracts its text, and stores the
// extraction under userID, replacing whatever was there. An unsupported
// file is EUNSUPPORTED and leaves the stored extraction untouched, as
// does any extraction failure. An image that OCRs to empty text is still
// a successful extraction and is stored.
func (p *Pipeline) Process(ctx context.Context, userID int64, filename string, photo bool, data []byte) (*ocrbot.Extraction, error) {
	kind := ocrbot.DetectFileKind(filename, photo)

	var (
		text   string
		source ocrbot.SourceKind
		err    error
	)
	switch kind {
	case ocrbot.FileImage:
		text, err = p.extractImage(ctx, data)
		source = ocrbot.SourceImage
	case ocrbot.FilePDF:
		text, err = p.PDF.Extract(ctx, data)
		source = ocrbot.SourcePDF
	case ocrbot.FileXML:
		text, err = p.XML.Extract(ctx, data)
		source = ocrbot.SourceXML
	case ocrbot.FileUnsupported:
		return nil, ocrbot.Errorf(ocrbot.EUNSUPPORTED, "unsupported file type %q", filename)
	default:
		return nil, ocrbot.Errorf(ocrbot.EINTERNAL, "unhandled file kind %v", kind)
	}
	if err != nil {
		return nil, err
	}

	extraction := &ocrbot.Extraction{
		UserID:      userID,
		Text:        text,
		Source:      source,
		ExtractedAt: p.now(),
	}
	if err := extraction.Validate(); err != nil {
		return nil, err
	}
	if err := p.Sessions.Put(ctx, extraction); err != nil {
		return nil, err
	}
	return extraction, nil
}

// extractImage runs the configured preprocessing over the upload and
// OCRs the result. The recognized text is trimmed but may legitimately
// be empty.
func (p *Pipeline) extractImage(ctx context.Context, data []byte) (string, error) {
	prepared, err := p.Preprocessor.Preprocess(data)
	if err != nil {
		return "", err
	}
	text, err := p.Recognizer.Recognize(ctx, ocrbot.RecognitionRequest{
		Image:     prepared,
		Languages: p.Languages,
		Layout:    ocrbot.LayoutUniformBlock,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
