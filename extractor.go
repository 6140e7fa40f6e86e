package ocrbot

import "context"

// DocumentExtractor extracts text from a structured container (a PDF
// document or an XML file) without running OCR on the container itself.
// Implementations may invoke the OCR pipeline on embedded images when the
// container holds no direct text.
//
// A malformed container is EPARSE; a well-formed container with no
// extractable content is ENOTEXT. The two are distinct: ENOTEXT is
// expected input, not a fault.
type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}
