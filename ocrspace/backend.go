// Package ocrspace implements the remote OCR backend against the
// OCR.space image parsing API. Unlike the local engine it does no
// preprocessing of its own: the raw upload bytes are sent as-is and the
// provider handles orientation and scaling.
package ocrspace

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the hosted OCR.space parse endpoint.
const DefaultEndpoint = "https://api.ocr.space/parse/image"

// DefaultTimeout bounds a recognition round trip so a stalled provider
// cannot block a handler indefinitely.
const DefaultTimeout = 30 * time.Second

// DefaultRequestsPerSecond matches the free-tier allowance.
const DefaultRequestsPerSecond = 1.0

// Ensure Backend implements ocrbot.Recognizer at compile time.
var _ ocrbot.Recognizer = (*Backend)(nil)

// Backend recognizes text through the OCR.space HTTP API. Calls fail fast:
// there is no retry beyond what the caller chooses to do, and the caller
// reports failures to the user.
type Backend struct {
	client   *http.Client
	limiter  *rate.Limiter
	endpoint string
	apiKey   string
	timeout  time.Duration
}

// Option configures a Backend.
type Option func(*Backend)

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Backend) { b.timeout = d }
}

// WithEndpoint overrides the API endpoint. Used by tests and self-hosted
// deployments.
func WithEndpoint(url string) Option {
	return func(b *Backend) { b.endpoint = url }
}

// WithRateLimit sets the outbound request rate with a burst of 1.
// Defaults to DefaultRequestsPerSecond.
func WithRateLimit(rps float64) Option {
	return func(b *Backend) { b.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewBackend creates a Backend. An empty apiKey is legal and means the
// anonymous free tier.
func NewBackend(apiKey string, opts ...Option) *Backend {
	b := &Backend{
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.limiter == nil {
		b.limiter = rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1)
	}
	b.client = &http.Client{Timeout: b.timeout}
	return b
}

// Name identifies the backend in logs.
func (b *Backend) Name() string { return "ocrspace" }

type parsedResult struct {
	ParsedText string `json:"ParsedText"`
}

type apiResponse struct {
	IsErroredOnProcessing bool           `json:"IsErroredOnProcessing"`
	ErrorMessage          []string       `json:"ErrorMessage"`
	ParsedResults         []parsedResult `json:"ParsedResults"`
}

// Recognize sends the image to the provider and returns the first parsed
// result's text. A provider-side processing error or a non-2xx transport
// response is ERECOGNITION; an empty parsed text is a successful empty
// result, not an error.
func (b *Backend) Recognize(ctx context.Context, req ocrbot.RecognitionRequest) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, contentType, err := encodeRequest(req, b.apiKey)
	if err != nil {
		return "", ocrbot.Errorf(ocrbot.EINTERNAL, "encode recognition request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, body)
	if err != nil {
		return "", ocrbot.Errorf(ocrbot.EINTERNAL, "build recognition request: %v", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "ocr.space request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "ocr.space returned HTTP %d", resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "decode ocr.space response: %v", err)
	}

	if out.IsErroredOnProcessing {
		msg := strings.Join(out.ErrorMessage, "; ")
		if msg == "" {
			msg = "unknown provider error"
		}
		return "", ocrbot.Errorf(ocrbot.ERECOGNITION, "ocr.space: %s", msg)
	}

	if len(out.ParsedResults) == 0 {
		return "", nil
	}
	return out.ParsedResults[0].ParsedText, nil
}

// encodeRequest builds the multipart body the provider expects: a binary
// "file" part declared as image/jpeg plus the documented form fields.
func encodeRequest(req ocrbot.RecognitionRequest, apiKey string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="image.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Image); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"language":          language(req.Languages),
		"isOverlayRequired": "false",
		"filetype":          "JPG",
		"detectOrientation": "true",
		"scale":             "true",
		// Empty apikey is the anonymous free tier.
		"apikey": apiKey,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// language picks the provider's single target language from the hints.
func language(hints []string) string {
	if len(hints) > 0 && hints[0] != "" {
		return hints[0]
	}
	return ocrbot.LangEnglish
}
