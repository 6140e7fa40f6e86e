// Package export turns stored extractions into downloadable files. The
// transport hands the rendered file to the chat platform and the
// transient copy on disk is removed no matter how the send went.
package export

import (
	"os"
	"path/filepath"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

// Generator renders extractions into export files. Renderers are
// registered per format at wiring time.
type Generator struct {
	renderers map[ocrbot.ExportFormat]ocrbot.Renderer
}

// NewGenerator creates a Generator with no registered formats.
func NewGenerator() *Generator {
	return &Generator{renderers: make(map[ocrbot.ExportFormat]ocrbot.Renderer)}
}

// Register installs the renderer for a format, replacing any previous
// one.
func (g *Generator) Register(format ocrbot.ExportFormat, r ocrbot.Renderer) {
	g.renderers[format] = r
}

// Render produces the file bytes for the format. A format nobody
// registered is EUNSUPPORTED.
func (g *Generator) Render(format ocrbot.ExportFormat, text string) ([]byte, error) {
	r, ok := g.renderers[format]
	if !ok {
		return nil, ocrbot.Errorf(ocrbot.EUNSUPPORTED, "no renderer for format %q", format)
	}
	data, err := r.Render(text)
	if err != nil {
		if ocrbot.ErrorCode(err) == ocrbot.EEXPORT {
			return nil, err
		}
		return nil, ocrbot.Errorf(ocrbot.EEXPORT, "render %s: %v", format, err)
	}
	return data, nil
}

// Spool renders the text and writes it to a fresh temporary directory
// under the format's canonical filename. The returned cleanup removes
// the directory and is safe to call more than once; callers defer it
// immediately so the file never outlives the request.
func (g *Generator) Spool(format ocrbot.ExportFormat, text string) (string, func(), error) {
	data, err := g.Render(format, text)
	if err != nil {
		return "", nil, err
	}

	dir, err := os.MkdirTemp("", "ocrbot-export-")
	if err != nil {
		return "", nil, ocrbot.Errorf(ocrbot.EEXPORT, "create export directory: %v", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	path := filepath.Join(dir, format.FileName())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		cleanup()
		return "", nil, ocrbot.Errorf(ocrbot.EEXPORT, "write export file: %v", err)
	}
	return path, cleanup, nil
}

// Ensure TextRenderer implements ocrbot.Renderer.
var _ ocrbot.Renderer = (*TextRenderer)(nil)

// TextRenderer renders plain text exports: the extracted text verbatim,
// UTF-8 encoded.
type TextRenderer struct{}

// NewTextRenderer creates a new TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render returns the text bytes unchanged.
func (r *TextRenderer) Render(text string) ([]byte, error) {
	return []byte(text), nil
}
