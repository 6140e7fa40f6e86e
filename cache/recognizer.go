// Package cache provides a memoizing decorator for OCR backends.
// Chat users routinely re-send the exact same photo; hashing the input
// lets the bot answer from memory instead of repeating an engine run or a
// provider round trip.
package cache

import (
	"context"
	"sync"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/cespare/xxhash/v2"
)

// DefaultMaxEntries bounds the cache. OCR output is small but the map
// holds full extracted texts, so the bound stays modest.
const DefaultMaxEntries = 128

// Ensure Recognizer implements ocrbot.Recognizer at compile time.
var _ ocrbot.Recognizer = (*Recognizer)(nil)

// Recognizer wraps another backend and memoizes successful results keyed
// by xxHash of the image bytes, the language hints, and the layout mode.
// Failures are never cached. Safe for concurrent use.
type Recognizer struct {
	next ocrbot.Recognizer
	max  int

	mu      sync.Mutex
	entries map[uint64]string
}

// NewRecognizer wraps next with a cache of at most maxEntries results.
// Non-positive maxEntries falls back to DefaultMaxEntries.
func NewRecognizer(next ocrbot.Recognizer, maxEntries int) *Recognizer {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Recognizer{
		next:    next,
		max:     maxEntries,
		entries: make(map[uint64]string, maxEntries),
	}
}

// Name reports the wrapped backend's name.
func (r *Recognizer) Name() string { return r.next.Name() }

// Recognize returns the cached text for a previously seen request, or
// delegates and remembers the result.
func (r *Recognizer) Recognize(ctx context.Context, req ocrbot.RecognitionRequest) (string, error) {
	key := hashRequest(req)

	r.mu.Lock()
	text, ok := r.entries[key]
	r.mu.Unlock()
	if ok {
		return text, nil
	}

	text, err := r.next.Recognize(ctx, req)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	// Full reset at capacity: no recency tracking needed at this scale.
	if len(r.entries) >= r.max {
		r.entries = make(map[uint64]string, r.max)
	}
	r.entries[key] = text
	r.mu.Unlock()

	return text, nil
}

// hashRequest derives the cache key. A zero byte separates the image from
// each hint so concatenation ambiguity cannot alias two requests.
func hashRequest(req ocrbot.RecognitionRequest) uint64 {
	h := xxhash.New()
	_, _ = h.Write(req.Image)
	for _, lang := range req.Languages {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(lang)
	}
	_, _ = h.Write([]byte{0, byte(req.Layout)})
	return h.Sum64()
}
