// Package gosseract implements the local OCR backend on top of the
// Tesseract engine via the gosseract client. It requires the tesseract
// library and the eng/rus trained data to be installed on the host.
package gosseract

import (
	"context"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/otiai10/gosseract/v2"
)

// Whitelist is the closed set of characters the engine is allowed to emit:
// ASCII digits and letters, Cyrillic letters including ё/Ё, and the
// punctuation set ". , - /" plus space. Everything else is dropped from
// the output.
const Whitelist = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"абвгдеёжзийклмнопрстуфхцчшщъыьэюя" +
	"АБВГДЕЁЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ" +
	".,-/ "

// Ensure Engine implements ocrbot.Recognizer at compile time.
var _ ocrbot.Recognizer = (*Engine)(nil)

// Engine recognizes text with a local Tesseract installation. A fresh
// client is created per invocation, so no state survives between calls and
// identical input bytes produce identical output for a given engine
// version.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed Engine.
func NewEngine() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

// Name identifies the backend in logs.
func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on the request image. Empty output is a valid
// result; engine failures are ERECOGNITION.
func (e *Engine) Recognize(ctx context.Context, req ocrbot.RecognitionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(req.Image); err != nil {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "set image: %v", err)
	}

	langs := req.Languages
	if len(langs) == 0 {
		langs = []string{ocrbot.LangEnglish, ocrbot.LangRussian}
	}
	if err := c.SetLanguage(langs...); err != nil {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "set languages: %v", err)
	}

	if err := c.SetPageSegMode(pageSegMode(req.Layout)); err != nil {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "set page segmentation mode: %v", err)
	}
	if err := c.SetVariable("preserve_interword_spaces", "1"); err != nil {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "preserve interword spaces: %v", err)
	}
	if err := c.SetVariable("tessedit_char_whitelist", Whitelist); err != nil {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "set character whitelist: %v", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "recognize text: %v", err)
	}
	return text, nil
}

// pageSegMode maps the layout hint to a Tesseract page segmentation mode.
func pageSegMode(layout ocrbot.LayoutMode) gosseract.PageSegMode {
	switch layout {
	case ocrbot.LayoutSparse:
		return gosseract.PSM_SPARSE_TEXT
	default:
		return gosseract.PSM_SINGLE_BLOCK
	}
}
