// Package docx renders extracted text as a Word export file.
package docx

import (
	"bytes"
	"strings"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/fumiama/go-docx"
)

// Ensure Renderer implements ocrbot.Renderer.
var _ ocrbot.Renderer = (*Renderer)(nil)

// Renderer produces a .docx document, one paragraph per extracted line.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the document bytes. Failures are EEXPORT.
func (r *Renderer) Render(text string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	for _, line := range strings.Split(text, "\n") {
		doc.AddParagraph().AddText(line)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, ocrbot.Errorf(ocrbot.EEXPORT, "render docx: %v", err)
	}
	return buf.Bytes(), nil
}
