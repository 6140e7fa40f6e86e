package mock

import (
	"context"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

var _ ocrbot.DocumentExtractor = (*DocumentExtractor)(nil)

// DocumentExtractor is a mock implementation of ocrbot.DocumentExtractor.
type DocumentExtractor struct {
	ExtractFn func(ctx context.Context, data []byte) (string, error)
}

func (e *DocumentExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	return e.ExtractFn(ctx, data)
}
