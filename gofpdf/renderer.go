// Package gofpdf renders extracted text as a PDF export file.
package gofpdf

import (
	"bytes"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/jung-kurt/gofpdf"
)

// Ensure Renderer implements ocrbot.Renderer.
var _ ocrbot.Renderer = (*Renderer)(nil)

// Renderer produces a single-column Letter document. Text goes through
// the cp1251 translator so Cyrillic extractions survive the core-font
// encoding.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays the text out as one flowing paragraph and returns the PDF
// bytes. Failures are EEXPORT.
func (r *Renderer) Render(text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
	pdf.Ln(5)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, ocrbot.Errorf(ocrbot.EEXPORT, "render pdf: %v", err)
	}
	return buf.Bytes(), nil
}
