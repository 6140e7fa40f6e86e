package mock

import (
	"context"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

var _ ocrbot.Recognizer = (*Recognizer)(nil)

// Recognizer is a mock implementation of ocrbot.Recognizer.
type Recognizer struct {
	NameFn      func() string
	RecognizeFn func(ctx context.Context, req ocrbot.RecognitionRequest) (string, error)
}

func (r *Recognizer) Name() string {
	if r.NameFn == nil {
		return "mock"
	}
	return r.NameFn()
}

func (r *Recognizer) Recognize(ctx context.Context, req ocrbot.RecognitionRequest) (string, error) {
	return r.RecognizeFn(ctx, req)
}
