package gopdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	gopdf2 "github.com/VantageDataChat/GoPDF2"
	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/331515Stud/tg-bot-for-gf/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The policy tests stub the PDF library behind the api seam; real-file
// decoding belongs to the library's own tests.

var pdfHeader = []byte("%PDF-1.4\n")

// grayImage is a decodable 2x2 gray FlateDecode image without predictor.
var grayImage = gopdf2.ExtractedImage{
	Data: []byte{0, 255, 255, 0}, Width: 2, Height: 2,
	Filter: "FlateDecode", ColorSpace: "DeviceGray",
}

func passthroughPreprocessor() *mock.Preprocessor {
	return &mock.Preprocessor{
		PreprocessFn: func(raw []byte) ([]byte, error) { return raw, nil },
	}
}

func fixedRecognizer(text string) *mock.Recognizer {
	return &mock.Recognizer{
		RecognizeFn: func(ctx context.Context, req ocrbot.RecognitionRequest) (string, error) {
			return text, nil
		},
	}
}

func newTestExtractor(a api, pre ocrbot.Preprocessor, ocr ocrbot.Recognizer) *Extractor {
	e := NewExtractor(pre, ocr, nil)
	e.api = a
	return e
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("not a pdf is a parse error", func(t *testing.T) {
		t.Parallel()

		e := NewExtractor(passthroughPreprocessor(), fixedRecognizer(""), nil)
		_, err := e.Extract(context.Background(), []byte("plain text"))
		require.Error(t, err)
		assert.Equal(t, ocrbot.EPARSE, ocrbot.ErrorCode(err))
	})

	t.Run("unreadable pdf is a parse error", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 0, errors.New("bad xref") },
		}, passthroughPreprocessor(), fixedRecognizer(""))

		_, err := e.Extract(context.Background(), pdfHeader)
		require.Error(t, err)
		assert.Equal(t, ocrbot.EPARSE, ocrbot.ErrorCode(err))
	})

	t.Run("text on the first page wins without consulting images", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 3, nil },
			pageText: func(data []byte, page int) (string, error) {
				require.Zero(t, page, "scan must stop on the first page")
				return "  счёт на оплату  ", nil
			},
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				t.Error("image extraction must not run when the page has text")
				return nil, nil
			},
		}, passthroughPreprocessor(), fixedRecognizer(""))

		text, err := e.Extract(context.Background(), pdfHeader)
		require.NoError(t, err)
		assert.Equal(t, "счёт на оплату", text)
	})

	t.Run("blank imageless pages are skipped until a page has text", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 2, nil },
			pageText: func(data []byte, page int) (string, error) {
				if page == 0 {
					return "   ", nil
				}
				return "recovered", nil
			},
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				return nil, nil
			},
		}, passthroughPreprocessor(), fixedRecognizer(""))

		text, err := e.Extract(context.Background(), pdfHeader)
		require.NoError(t, err)
		assert.Equal(t, "recovered", text)
	})

	t.Run("an earlier page's image beats a later page's text", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 2, nil },
			pageText: func(data []byte, page int) (string, error) {
				if page == 0 {
					return "", nil
				}
				return "page 1 direct text", nil
			},
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				return map[int][]gopdf2.ExtractedImage{0: {grayImage}}, nil
			},
		}, passthroughPreprocessor(), fixedRecognizer("ocr of page 0 image"))

		text, err := e.Extract(context.Background(), pdfHeader)
		require.NoError(t, err)
		assert.Equal(t, "ocr of page 0 image", text, "page 0's scan must be read before page 1 is even considered")
	})

	t.Run("scanned pdf ocrs its first image with the configured languages", func(t *testing.T) {
		t.Parallel()

		var preprocessed []byte
		pre := &mock.Preprocessor{
			PreprocessFn: func(b []byte) ([]byte, error) {
				preprocessed = b
				return b, nil
			},
		}
		var recognized []byte
		ocr := &mock.Recognizer{
			RecognizeFn: func(ctx context.Context, req ocrbot.RecognitionRequest) (string, error) {
				recognized = req.Image
				assert.Equal(t, []string{"deu"}, req.Languages)
				return "scanned text", nil
			},
		}

		e := NewExtractor(pre, ocr, []string{"deu"})
		e.api = api{
			pageCount: func(data []byte) (int, error) { return 2, nil },
			pageText:  func(data []byte, page int) (string, error) { return "", nil },
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				return map[int][]gopdf2.ExtractedImage{1: {grayImage}}, nil
			},
		}

		text, err := e.Extract(context.Background(), pdfHeader)
		require.NoError(t, err)
		assert.Equal(t, "scanned text", text)

		// Raw FlateDecode pixels must reach the preprocessor PNG-encoded.
		img, err := png.Decode(bytes.NewReader(preprocessed))
		require.NoError(t, err)
		assert.Equal(t, 2, img.Bounds().Dx())
		assert.Equal(t, recognized, preprocessed)
	})

	t.Run("language hints default to eng and rus", func(t *testing.T) {
		t.Parallel()

		ocr := &mock.Recognizer{
			RecognizeFn: func(ctx context.Context, req ocrbot.RecognitionRequest) (string, error) {
				assert.Equal(t, []string{"eng", "rus"}, req.Languages)
				return "x", nil
			},
		}
		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 1, nil },
			pageText:  func(data []byte, page int) (string, error) { return "", nil },
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				return map[int][]gopdf2.ExtractedImage{0: {grayImage}}, nil
			},
		}, passthroughPreprocessor(), ocr)

		_, err := e.Extract(context.Background(), pdfHeader)
		require.NoError(t, err)
	})

	t.Run("already encoded images pass through untouched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
		encoded := buf.Bytes()

		var preprocessed []byte
		pre := &mock.Preprocessor{
			PreprocessFn: func(b []byte) ([]byte, error) {
				preprocessed = b
				return b, nil
			},
		}

		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 1, nil },
			pageText:  func(data []byte, page int) (string, error) { return "", nil },
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				return map[int][]gopdf2.ExtractedImage{0: {{Data: encoded, Width: 1, Height: 1, Filter: "DCTDecode"}}}, nil
			},
		}, pre, fixedRecognizer("x"))

		_, err := e.Extract(context.Background(), pdfHeader)
		require.NoError(t, err)
		assert.Equal(t, encoded, preprocessed)
	})

	t.Run("empty ocr output is a successful empty result", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 1, nil },
			pageText:  func(data []byte, page int) (string, error) { return "", nil },
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				return map[int][]gopdf2.ExtractedImage{0: {grayImage}}, nil
			},
		}, passthroughPreprocessor(), fixedRecognizer(""))

		text, err := e.Extract(context.Background(), pdfHeader)
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("no text and no images is ENOTEXT", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(api{
			pageCount:  func(data []byte) (int, error) { return 1, nil },
			pageText:   func(data []byte, page int) (string, error) { return "", nil },
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) { return nil, nil },
		}, passthroughPreprocessor(), fixedRecognizer(""))

		_, err := e.Extract(context.Background(), pdfHeader)
		require.Error(t, err)
		assert.Equal(t, ocrbot.ENOTEXT, ocrbot.ErrorCode(err))
	})

	t.Run("page text failure is a parse error", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 2, nil },
			pageText: func(data []byte, page int) (string, error) {
				return "", errors.New("damaged content stream")
			},
		}, passthroughPreprocessor(), fixedRecognizer(""))

		_, err := e.Extract(context.Background(), pdfHeader)
		require.Error(t, err)
		assert.Equal(t, ocrbot.EPARSE, ocrbot.ErrorCode(err))
	})

	t.Run("image enumeration failure is a parse error", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 1, nil },
			pageText:  func(data []byte, page int) (string, error) { return "", nil },
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				return nil, errors.New("corrupt object stream")
			},
		}, passthroughPreprocessor(), fixedRecognizer(""))

		_, err := e.Extract(context.Background(), pdfHeader)
		require.Error(t, err)
		assert.Equal(t, ocrbot.EPARSE, ocrbot.ErrorCode(err))
	})

	t.Run("only the first image of a page is tried", func(t *testing.T) {
		t.Parallel()

		bad := gopdf2.ExtractedImage{Data: []byte{1, 2}, Width: 0, Height: 0, Filter: "JPXDecode"}
		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 2, nil },
			pageText:  func(data []byte, page int) (string, error) { return "", nil },
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				// Page 0's second image would convert fine, but only the
				// first is considered; the scan moves to page 1.
				return map[int][]gopdf2.ExtractedImage{
					0: {bad, grayImage},
					1: {grayImage},
				}, nil
			},
		}, passthroughPreprocessor(), fixedRecognizer("from page 1"))

		text, err := e.Extract(context.Background(), pdfHeader)
		require.NoError(t, err)
		assert.Equal(t, "from page 1", text)
	})

	t.Run("unusable first image on every page is ENOTEXT", func(t *testing.T) {
		t.Parallel()

		bad := gopdf2.ExtractedImage{Data: nil, Width: 100, Height: 100, Filter: "FlateDecode"}
		e := newTestExtractor(api{
			pageCount: func(data []byte) (int, error) { return 2, nil },
			pageText:  func(data []byte, page int) (string, error) { return "", nil },
			pageImages: func(data []byte) (map[int][]gopdf2.ExtractedImage, error) {
				return map[int][]gopdf2.ExtractedImage{0: {bad}, 1: {bad}}, nil
			},
		}, passthroughPreprocessor(), fixedRecognizer("never"))

		_, err := e.Extract(context.Background(), pdfHeader)
		require.Error(t, err)
		assert.Equal(t, ocrbot.ENOTEXT, ocrbot.ErrorCode(err))
	})
}

func TestDecodePNGPredictor(t *testing.T) {
	t.Parallel()

	t.Run("up filter reconstructs rows", func(t *testing.T) {
		t.Parallel()

		// 2x2 gray, row 0 unfiltered, row 1 stored as delta from row 0.
		data := []byte{
			0, 10, 20, // filter None
			2, 5, 5, // filter Up: 10+5, 20+5
		}
		got := decodePNGPredictor(data, 2, 2, 1)
		assert.Equal(t, []byte{10, 20, 15, 25}, got)
	})

	t.Run("sub filter reconstructs pixels left to right", func(t *testing.T) {
		t.Parallel()

		data := []byte{1, 100, 10, 10} // 100, 110, 120
		got := decodePNGPredictor(data, 3, 1, 1)
		assert.Equal(t, []byte{100, 110, 120}, got)
	})
}
