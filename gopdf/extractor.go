// Package gopdf implements text extraction from PDF documents. A page's
// own text layer is preferred; a textless page falls back to running OCR
// on that page's first embedded image.
package gopdf

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"

	gopdf2 "github.com/VantageDataChat/GoPDF2"
	ocrbot "github.com/331515Stud/tg-bot-for-gf"
)

// Ensure Extractor implements ocrbot.DocumentExtractor.
var _ ocrbot.DocumentExtractor = (*Extractor)(nil)

// api isolates the PDF library's package-level functions so the
// extraction policy can be tested without real PDF fixtures.
type api struct {
	pageCount  func(data []byte) (int, error)
	pageText   func(data []byte, page int) (string, error)
	pageImages func(data []byte) (map[int][]gopdf2.ExtractedImage, error)
}

func realAPI() api {
	return api{
		pageCount:  gopdf2.GetSourcePDFPageCountFromBytes,
		pageText:   gopdf2.ExtractPageText,
		pageImages: gopdf2.ExtractImagesFromAllPages,
	}
}

// Extractor extracts text from PDF bytes. For scanned pages it needs a
// Preprocessor and Recognizer to read the embedded page image.
type Extractor struct {
	pre       ocrbot.Preprocessor
	ocr       ocrbot.Recognizer
	languages []string
	api       api
}

// NewExtractor creates a new Extractor. The preprocessor and recognizer
// handle the scanned-page fallback; languages are the OCR hints for it,
// defaulting to eng+rus.
func NewExtractor(pre ocrbot.Preprocessor, ocr ocrbot.Recognizer, languages []string) *Extractor {
	if len(languages) == 0 {
		languages = []string{ocrbot.LangEnglish, ocrbot.LangRussian}
	}
	return &Extractor{pre: pre, ocr: ocr, languages: languages, api: realAPI()}
}

// Extract visits pages in order and decides per page: a page's own
// non-blank text wins and ends the scan; a textless page's first
// embedded image is preprocessed and sent to OCR, and that result ends
// the scan even when empty. Later images on the same page are never
// tried; a page whose first image cannot be converted is skipped. A PDF
// where no page yields text or a usable image is ENOTEXT; a container
// the library cannot read is EPARSE.
func (e *Extractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The PDF library parses untrusted input; contain its panics.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = ocrbot.Errorf(ocrbot.EPARSE, "pdf parser panic: %v", r)
		}
	}()

	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return "", ocrbot.Errorf(ocrbot.EPARSE, "not a pdf document")
	}

	pageCount, err := e.api.pageCount(data)
	if err != nil {
		return "", ocrbot.Errorf(ocrbot.EPARSE, "read pdf: %v", err)
	}

	// The library enumerates images for the whole document at once;
	// fetch lazily so text-first documents never pay for it.
	var (
		imgMap       map[int][]gopdf2.ExtractedImage
		imagesLoaded bool
	)

	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText, err := e.api.pageText(data, i)
		if err != nil {
			return "", ocrbot.Errorf(ocrbot.EPARSE, "read pdf page %d: %v", i, err)
		}
		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			return trimmed, nil
		}

		if !imagesLoaded {
			imgMap, err = e.api.pageImages(data)
			if err != nil {
				return "", ocrbot.Errorf(ocrbot.EPARSE, "read pdf images: %v", err)
			}
			imagesLoaded = true
		}

		imgs := imgMap[i]
		if len(imgs) == 0 {
			continue
		}
		encoded := encodeImage(imgs[0])
		if encoded == nil {
			continue
		}
		prepared, err := e.pre.Preprocess(encoded)
		if err != nil {
			continue
		}
		return e.ocr.Recognize(ctx, ocrbot.RecognitionRequest{
			Image:     prepared,
			Languages: e.languages,
		})
	}

	return "", ocrbot.Errorf(ocrbot.ENOTEXT, "pdf has no text layer and no usable embedded image")
}

// encodeImage turns an extracted PDF image into bytes the image decoder
// understands. DCTDecode streams are already JPEG; FlateDecode streams
// are raw pixel rows, possibly behind a PNG predictor, and get
// re-encoded as PNG. Returns nil when the image cannot be converted.
func encodeImage(img gopdf2.ExtractedImage) []byte {
	if len(img.Data) == 0 {
		return nil
	}
	if isJPEGOrPNG(img.Data) {
		return img.Data
	}
	if img.Filter == "FlateDecode" || img.Filter == "" {
		return rawPixelsToPNG(img.Data, img.Width, img.Height, img.ColorSpace)
	}
	return nil
}

// isJPEGOrPNG checks for JPEG or PNG magic bytes.
func isJPEGOrPNG(data []byte) bool {
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return true
	}
	return len(data) >= 4 && string(data[:4]) == "\x89PNG"
}

// rawPixelsToPNG converts raw decompressed pixel rows to PNG. FlateDecode
// streams written with Predictor 10..15 carry one PNG filter-type byte
// per row, so their size is height*(width*bytesPerPixel+1).
func rawPixelsToPNG(data []byte, width, height int, colorSpace string) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}

	isGray := strings.Contains(colorSpace, "Gray")
	bytesPerPixel := 3 // DeviceRGB
	if isGray {
		bytesPerPixel = 1
	}

	rowBytes := width * bytesPerPixel
	expectedPlain := rowBytes * height
	expectedPredicted := (rowBytes + 1) * height

	pixels := data
	if len(data) == expectedPredicted && len(data) != expectedPlain {
		pixels = decodePNGPredictor(data, width, height, bytesPerPixel)
		if pixels == nil {
			return nil
		}
	} else if len(data) < expectedPlain {
		return nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if isGray {
		for y := 0; y < height; y++ {
			srcOff := y * width
			dstOff := y * img.Stride
			for x := 0; x < width; x++ {
				g := pixels[srcOff+x]
				img.Pix[dstOff] = g
				img.Pix[dstOff+1] = g
				img.Pix[dstOff+2] = g
				img.Pix[dstOff+3] = 255
				dstOff += 4
			}
		}
	} else {
		for y := 0; y < height; y++ {
			srcOff := y * width * 3
			dstOff := y * img.Stride
			for x := 0; x < width; x++ {
				img.Pix[dstOff] = pixels[srcOff]
				img.Pix[dstOff+1] = pixels[srcOff+1]
				img.Pix[dstOff+2] = pixels[srcOff+2]
				img.Pix[dstOff+3] = 255
				srcOff += 3
				dstOff += 4
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// decodePNGPredictor reverses per-row PNG filters (0=None, 1=Sub, 2=Up,
// 3=Average, 4=Paeth) and returns the raw pixel rows without the filter
// bytes.
func decodePNGPredictor(data []byte, width, height, bytesPerPixel int) []byte {
	rowBytes := width * bytesPerPixel
	srcStride := rowBytes + 1
	out := make([]byte, rowBytes*height)

	for y := 0; y < height; y++ {
		srcRow := data[y*srcStride : (y+1)*srcStride]
		filterType := srcRow[0]
		filtered := srcRow[1:]
		dstRow := out[y*rowBytes : (y+1)*rowBytes]

		var prevRow []byte
		if y > 0 {
			prevRow = out[(y-1)*rowBytes : y*rowBytes]
		}

		switch filterType {
		case 0:
			copy(dstRow, filtered)
		case 1: // Sub
			for i := 0; i < rowBytes; i++ {
				left := byte(0)
				if i >= bytesPerPixel {
					left = dstRow[i-bytesPerPixel]
				}
				dstRow[i] = filtered[i] + left
			}
		case 2: // Up
			for i := 0; i < rowBytes; i++ {
				up := byte(0)
				if prevRow != nil {
					up = prevRow[i]
				}
				dstRow[i] = filtered[i] + up
			}
		case 3: // Average
			for i := 0; i < rowBytes; i++ {
				left := 0
				if i >= bytesPerPixel {
					left = int(dstRow[i-bytesPerPixel])
				}
				up := 0
				if prevRow != nil {
					up = int(prevRow[i])
				}
				dstRow[i] = filtered[i] + byte((left+up)/2)
			}
		case 4: // Paeth
			for i := 0; i < rowBytes; i++ {
				left := byte(0)
				if i >= bytesPerPixel {
					left = dstRow[i-bytesPerPixel]
				}
				up := byte(0)
				if prevRow != nil {
					up = prevRow[i]
				}
				upLeft := byte(0)
				if prevRow != nil && i >= bytesPerPixel {
					upLeft = prevRow[i-bytesPerPixel]
				}
				dstRow[i] = filtered[i] + paethPredictor(left, up, upLeft)
			}
		default:
			copy(dstRow, filtered)
		}
	}
	return out
}

func paethPredictor(a, b, c byte) byte {
	ia, ib, ic := int(a), int(b), int(c)
	p := ia + ib - ic
	pa := abs(p - ia)
	pb := abs(p - ib)
	pc := abs(p - ic)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
