// Package etree implements structured text extraction from recognition
// result XML documents. These documents carry page-level OCR output
// under PAGE elements, each holding the recognized text in a
// CONTENT_FROM_OCR element.
package etree

import (
	"bytes"
	"context"
	"strings"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/beevik/etree"
)

// Ensure Extractor implements ocrbot.DocumentExtractor.
var _ ocrbot.DocumentExtractor = (*Extractor)(nil)

// Extractor pulls recognized text out of result XML. Pages are visited
// in document order and each contributes one line of output.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the XML and concatenates the first CONTENT_FROM_OCR
// descendant of every PAGE element, one page per line, with the whole
// result trimmed. A document that parses but yields no text is ENOTEXT;
// a document that does not parse is EPARSE.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return "", ocrbot.Errorf(ocrbot.EPARSE, "parse result xml: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return "", ocrbot.Errorf(ocrbot.EPARSE, "result xml has no root element")
	}

	var sb strings.Builder
	for _, page := range findAll(root, "PAGE") {
		content := firstDescendant(page, "CONTENT_FROM_OCR")
		if content == nil {
			continue
		}
		text := strings.TrimSpace(content.Text())
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "", ocrbot.Errorf(ocrbot.ENOTEXT, "result xml contains no recognized text")
	}
	return strings.TrimSpace(sb.String()), nil
}

// findAll returns every descendant of el with the given tag, in document
// order, including el itself.
func findAll(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	if el.Tag == tag {
		out = append(out, el)
	}
	for _, child := range el.ChildElements() {
		out = append(out, findAll(child, tag)...)
	}
	return out
}

// firstDescendant returns the first descendant of el with the given tag
// in document order, or nil.
func firstDescendant(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := firstDescendant(child, tag); found != nil {
			return found
		}
	}
	return nil
}
