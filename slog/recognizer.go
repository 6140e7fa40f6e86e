// Package slog provides logging decorators for the core service
// interfaces, built on the standard library's structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

// Ensure LoggingRecognizer implements ocrbot.Recognizer.
var _ ocrbot.Recognizer = (*LoggingRecognizer)(nil)

// LoggingRecognizer wraps a Recognizer with per-call logging.
type LoggingRecognizer struct {
	next   ocrbot.Recognizer
	logger *slog.Logger
}

// NewLoggingRecognizer creates a new LoggingRecognizer.
func NewLoggingRecognizer(next ocrbot.Recognizer, logger *slog.Logger) *LoggingRecognizer {
	return &LoggingRecognizer{next: next, logger: logger}
}

// Name delegates to the wrapped recognizer.
func (r *LoggingRecognizer) Name() string { return r.next.Name() }

// Recognize delegates to the wrapped recognizer and logs the operation.
func (r *LoggingRecognizer) Recognize(ctx context.Context, req ocrbot.RecognitionRequest) (text string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("ocr recognition",
			"backend", r.next.Name(),
			"image_bytes", len(req.Image),
			"languages", req.Languages,
			"text_len", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Recognize(ctx, req)
}
