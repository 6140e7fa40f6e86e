package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/331515Stud/tg-bot-for-gf/cache"
	"github.com/331515Stud/tg-bot-for-gf/docx"
	"github.com/331515Stud/tg-bot-for-gf/etree"
	"github.com/331515Stud/tg-bot-for-gf/export"
	"github.com/331515Stud/tg-bot-for-gf/gofpdf"
	"github.com/331515Stud/tg-bot-for-gf/gopdf"
	"github.com/331515Stud/tg-bot-for-gf/gosseract"
	"github.com/331515Stud/tg-bot-for-gf/inmem"
	"github.com/331515Stud/tg-bot-for-gf/ocrspace"
	"github.com/331515Stud/tg-bot-for-gf/pipeline"
	botslog "github.com/331515Stud/tg-bot-for-gf/slog"
	"github.com/331515Stud/tg-bot-for-gf/sqlite"
	"github.com/331515Stud/tg-bot-for-gf/telegram"
	"github.com/331515Stud/tg-bot-for-gf/ximage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stderr); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the session store, nil when the
	// in-process store is used.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run parses the configuration, wires the services, and runs the bot
// until ctx is canceled.
func (m *Main) Run(ctx context.Context, args []string, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ocrbot"),
		kong.Description("Telegram bot extracting text from images, PDF and XML files"),
		kong.Writers(stderr, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := newLogger(stderr, cli.LogLevel)

	sessions, err := m.openSessions(cli, logger)
	if err != nil {
		return err
	}

	recognizer := botslog.NewLoggingRecognizer(
		cache.NewRecognizer(newBackend(cli), cli.CacheSize),
		logger,
	)
	preprocessor := newPreprocessor(cli)

	p := &pipeline.Pipeline{
		Preprocessor: preprocessor,
		Recognizer:   recognizer,
		PDF:          botslog.NewLoggingExtractor(gopdf.NewExtractor(preprocessor, recognizer, cli.OCRLanguages), "pdf", logger),
		XML:          botslog.NewLoggingExtractor(etree.NewExtractor(), "xml", logger),
		Sessions:     sessions,
		Languages:    cli.OCRLanguages,
	}

	exports := export.NewGenerator()
	exports.Register(ocrbot.ExportTXT, export.NewTextRenderer())
	exports.Register(ocrbot.ExportPDF, gofpdf.NewRenderer())
	exports.Register(ocrbot.ExportDOCX, docx.NewRenderer())

	opts := []telegram.Option{
		telegram.WithConcurrency(cli.Concurrency),
		telegram.WithLogger(logger),
	}
	if cli.WebhookURL != "" {
		opts = append(opts, telegram.WithWebhook(cli.WebhookURL, fmt.Sprintf(":%d", cli.Port)))
	}

	bot, err := telegram.NewBot(cli.Token, p, sessions, exports, opts...)
	if err != nil {
		return err
	}
	return bot.Run(ctx)
}

// openSessions picks the session store from the configuration.
func (m *Main) openSessions(cli *CLI, logger *slog.Logger) (ocrbot.SessionStore, error) {
	if cli.SessionDB == "" {
		return botslog.NewLoggingSessionStore(inmem.NewSessionStore(), logger), nil
	}

	m.DB = sqlite.NewDB(cli.SessionDB)
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open sessions database at %q: %w", cli.SessionDB, err)
	}
	return botslog.NewLoggingSessionStore(sqlite.NewSessionStore(m.DB), logger), nil
}

// newPreprocessor picks the preprocessing step matching the OCR backend.
// The remote API preprocesses uploads server-side, so it receives the
// raw bytes untouched; local tesseract gets the binarized image.
func newPreprocessor(cli *CLI) ocrbot.Preprocessor {
	if cli.OCRBackend == "ocrspace" {
		return ximage.NewPassthrough()
	}
	return ximage.NewPreprocessor()
}

// newBackend picks the configured OCR backend.
func newBackend(cli *CLI) ocrbot.Recognizer {
	if cli.OCRBackend == "ocrspace" {
		return ocrspace.NewBackend(cli.OCRAPIKey, ocrspace.WithTimeout(cli.OCRTimeout))
	}
	return gosseract.NewEngine()
}

// newLogger builds the process logger at the configured level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
