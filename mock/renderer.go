package mock

import ocrbot "github.com/331515Stud/tg-bot-for-gf"

var _ ocrbot.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of ocrbot.Renderer.
type Renderer struct {
	RenderFn func(text string) ([]byte, error)
}

func (r *Renderer) Render(text string) ([]byte, error) {
	return r.RenderFn(text)
}
