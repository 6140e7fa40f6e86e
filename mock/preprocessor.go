package mock

import ocrbot "github.com/331515Stud/tg-bot-for-gf"

var _ ocrbot.Preprocessor = (*Preprocessor)(nil)

// Preprocessor is a mock implementation of ocrbot.Preprocessor.
type Preprocessor struct {
	PreprocessFn func(raw []byte) ([]byte, error)
}

func (p *Preprocessor) Preprocess(raw []byte) ([]byte, error) {
	return p.PreprocessFn(raw)
}
