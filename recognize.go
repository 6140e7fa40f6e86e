package ocrbot

import "context"

// LayoutMode hints the expected text layout to an OCR engine.
type LayoutMode int

// LayoutMode values.
const (
	// LayoutUniformBlock assumes a single uniform block of text.
	LayoutUniformBlock LayoutMode = iota
	// LayoutSparse assumes sparse text scattered over the image.
	LayoutSparse
)

// Recognition language hints understood by both backends (ISO-639).
const (
	LangEnglish = "eng"
	LangRussian = "rus"
)

// RecognitionRequest carries one image through an OCR backend.
// It is ephemeral: backends must not retain it between invocations.
type RecognitionRequest struct {
	// Image is the encoded image payload: PNG after preprocessing, or the
	// raw upload for backends that do their own preprocessing remotely.
	Image []byte
	// Languages is a list of ISO-639 language hints, e.g. "eng", "rus".
	Languages []string
	// Layout describes the expected text layout.
	Layout LayoutMode
}

// Recognizer turns an image into extracted text.
//
// The backend is a deployment-time choice, never a per-request decision;
// implementations must be substitutable without changing callers. An empty
// string with a nil error is a legitimate result: the image contained no
// recognizable text.
type Recognizer interface {
	// Name identifies the backend in logs.
	Name() string

	// Recognize extracts text from the request image. The context bounds
	// the call for backends that do network I/O; local engines run to
	// completion.
	Recognize(ctx context.Context, req RecognitionRequest) (string, error)
}

// Preprocessor prepares raw image bytes for recognition. The binarizing
// implementation returns EDECODE when the bytes are not a decodable
// image; the pass-through implementation accepts anything. A
// preprocessor performs no text extraction itself.
type Preprocessor interface {
	Preprocess(raw []byte) ([]byte, error)
}
