package slog

import (
	"context"
	"log/slog"
	"time"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

// Ensure LoggingExtractor implements ocrbot.DocumentExtractor.
var _ ocrbot.DocumentExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a DocumentExtractor with per-call logging. The
// format attribute tells extractors apart when several are decorated.
type LoggingExtractor struct {
	next   ocrbot.DocumentExtractor
	format string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next ocrbot.DocumentExtractor, format string, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, format: format, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	defer func(begin time.Time) {
		e.logger.Info("document extraction",
			"format", e.format,
			"input_bytes", len(data),
			"text_len", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, data)
}
