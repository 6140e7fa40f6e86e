package ximage

import ocrbot "github.com/331515Stud/tg-bot-for-gf"

// Ensure Passthrough implements ocrbot.Preprocessor at compile time.
var _ ocrbot.Preprocessor = (*Passthrough)(nil)

// Passthrough hands image bytes to recognition unchanged. Used with
// backends that normalize images on their own side, where local
// binarization would only degrade the upload.
type Passthrough struct{}

// NewPassthrough creates a new Passthrough.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// Preprocess returns raw unchanged.
func (p *Passthrough) Preprocess(raw []byte) ([]byte, error) {
	return raw, nil
}
