package main

import (
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()

	cli := &CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	return cli, err
}

func TestCLI_Defaults(t *testing.T) {
	cli, err := parse(t, "--token=secret")
	require.NoError(t, err)

	assert.Equal(t, "tesseract", cli.OCRBackend)
	assert.Equal(t, []string{"eng", "rus"}, cli.OCRLanguages)
	assert.Equal(t, 30*time.Second, cli.OCRTimeout)
	assert.Equal(t, ":memory:", cli.SessionDB)
	assert.Equal(t, 8443, cli.Port)
	assert.Equal(t, 8, cli.Concurrency)
	assert.Equal(t, "info", cli.LogLevel)
	assert.Empty(t, cli.WebhookURL)
}

func TestCLI_RequiresToken(t *testing.T) {
	_, err := parse(t)
	require.Error(t, err)
}

func TestCLI_RejectsUnknownBackend(t *testing.T) {
	_, err := parse(t, "--token=secret", "--ocr-backend=google-vision")
	require.Error(t, err)
}

func TestNewPreprocessor(t *testing.T) {
	t.Run("remote backend uploads raw bytes", func(t *testing.T) {
		cli, err := parse(t, "--token=secret", "--ocr-backend=ocrspace")
		require.NoError(t, err)

		raw := []byte("not an image")
		out, perr := newPreprocessor(cli).Preprocess(raw)
		require.NoError(t, perr)
		assert.Equal(t, raw, out, "remote OCR gets the upload untouched")
	})

	t.Run("local backend binarizes", func(t *testing.T) {
		cli, err := parse(t, "--token=secret")
		require.NoError(t, err)

		_, perr := newPreprocessor(cli).Preprocess([]byte("not an image"))
		require.Error(t, perr, "local tesseract path decodes and binarizes")
	})
}

func TestCLI_EnvBindings(t *testing.T) {
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("OCR_BACKEND", "ocrspace")
	t.Setenv("SESSION_DB", "/var/lib/ocrbot/sessions.db")

	cli, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cli.Token)
	assert.Equal(t, "ocrspace", cli.OCRBackend)
	assert.Equal(t, "/var/lib/ocrbot/sessions.db", cli.SessionDB)
}
