// Package ximage provides the image preprocessing step of the OCR
// pipeline, built on the standard image packages plus the golang.org/x/image
// decoders for BMP and TIFF.
package ximage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Threshold is the fixed binarization cutoff on the 0-255 gray scale:
// luma >= Threshold maps to white, below to black. Deliberately not
// adaptive; replace only together with the recognition engine settings.
const Threshold = 127

// Ensure Preprocessor implements ocrbot.Preprocessor at compile time.
var _ ocrbot.Preprocessor = (*Preprocessor)(nil)

// Preprocessor decodes raw image bytes and binarizes them for recognition.
type Preprocessor struct{}

// NewPreprocessor creates a new Preprocessor.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Preprocess decodes raw bytes as a color image, converts to single-channel
// grayscale, applies fixed-threshold binarization and returns the result
// encoded as PNG. Bytes that do not decode as PNG, JPEG, GIF, BMP or TIFF
// yield EDECODE.
func (p *Preprocessor) Preprocess(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ocrbot.Errorf(ocrbot.EDECODE, "cannot decode image: %v", err)
	}

	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			v := uint8(0)
			if g.Y >= Threshold {
				v = 255
			}
			dst.SetGray(x, y, color.Gray{Y: v})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, ocrbot.Errorf(ocrbot.EINTERNAL, "encode binarized image: %v", err)
	}
	return buf.Bytes(), nil
}
