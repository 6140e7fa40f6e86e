// Package telegram implements the chat transport: it receives uploads
// and commands, drives the extraction pipeline, and delivers export
// files back to the user.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/331515Stud/tg-bot-for-gf/export"
	"github.com/331515Stud/tg-bot-for-gf/pipeline"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many updates are handled at once.
const DefaultConcurrency = 8

// maxDownloadBytes caps a file download. The bot API itself refuses to
// serve files above 20MB.
const maxDownloadBytes = 20 << 20

// api is the slice of the bot client the handlers use, separated so
// tests can fake it.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot is the Telegram transport. It owns no extraction logic: uploads
// go to the pipeline, save buttons go to the session store and export
// generator.
type Bot struct {
	bot    *tgbotapi.BotAPI
	api    api
	client *http.Client
	logger *slog.Logger

	pipeline *pipeline.Pipeline
	sessions ocrbot.SessionStore
	exports  *export.Generator

	webhookURL  string
	listenAddr  string
	concurrency int
}

// Option configures a Bot.
type Option func(*Bot)

// WithWebhook switches from long polling to webhook delivery. url is
// the public base URL Telegram calls; addr is the local listen address.
func WithWebhook(url, addr string) Option {
	return func(b *Bot) {
		b.webhookURL = url
		b.listenAddr = addr
	}
}

// WithConcurrency sets the number of updates handled in parallel.
func WithConcurrency(n int) Option {
	return func(b *Bot) { b.concurrency = n }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) { b.logger = logger }
}

// NewBot creates a Bot and authenticates the token against the API.
func NewBot(token string, p *pipeline.Pipeline, sessions ocrbot.SessionStore, exports *export.Generator, opts ...Option) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authenticate bot: %w", err)
	}

	b := &Bot{
		bot:         client,
		api:         client,
		client:      &http.Client{Timeout: 60 * time.Second},
		logger:      slog.Default(),
		pipeline:    p,
		sessions:    sessions,
		exports:     exports,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Run receives updates until ctx is canceled. Each update is handled on
// its own goroutine, bounded by the configured concurrency.
func (b *Bot) Run(ctx context.Context) error {
	updates, stop, err := b.updates()
	if err != nil {
		return err
	}
	defer stop()

	b.logger.Info("bot started",
		"username", b.bot.Self.UserName,
		"mode", b.mode(),
		"concurrency", b.concurrency,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				_ = g.Wait()
				return nil
			}
			g.Go(func() error {
				b.handleUpdate(gctx, update)
				return nil
			})
		}
	}
}

func (b *Bot) mode() string {
	if b.webhookURL != "" {
		return "webhook"
	}
	return "polling"
}

// updates opens the update stream in the configured mode and returns it
// with its shutdown function.
func (b *Bot) updates() (tgbotapi.UpdatesChannel, func(), error) {
	if b.webhookURL == "" {
		cfg := tgbotapi.NewUpdate(0)
		cfg.Timeout = 30
		return b.bot.GetUpdatesChan(cfg), b.bot.StopReceivingUpdates, nil
	}

	// The token in the path keeps strangers from posting fake updates.
	path := "/" + b.bot.Token
	wh, err := tgbotapi.NewWebhook(b.webhookURL + path)
	if err != nil {
		return nil, nil, fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return nil, nil, fmt.Errorf("register webhook: %w", err)
	}

	updates := b.bot.ListenForWebhook(path)
	srv := &http.Server{Addr: b.listenAddr}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			b.logger.Error("webhook server failed", "err", err)
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return updates, stop, nil
}

// handleUpdate dispatches one update. A panic in a handler is contained
// here so a poisoned upload cannot take the bot down.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	logger := b.logger.With("request_id", uuid.New().String())

	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panic", "panic", r)
			if chatID := updateChatID(update); chatID != 0 {
				b.reply(logger, chatID, msgGenericFailure)
			}
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(ctx, logger, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, logger, update.CallbackQuery)
	}
}

// updateChatID finds the chat to apologize in when a handler blows up.
func updateChatID(update tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (b *Bot) handleMessage(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.reply(logger, msg.Chat.ID, msgStart)
		case "paste":
			b.reply(logger, msg.Chat.ID, msgPaste)
		default:
			b.reply(logger, msg.Chat.ID, msgSendFile)
		}
		return
	}

	var (
		fileID   string
		filename string
		photo    bool
	)
	switch {
	case len(msg.Photo) > 0:
		// The last entry is the highest resolution rendition.
		fileID = msg.Photo[len(msg.Photo)-1].FileID
		filename = "photo.jpg"
		photo = true
	case msg.Document != nil:
		fileID = msg.Document.FileID
		filename = msg.Document.FileName
	default:
		b.reply(logger, msg.Chat.ID, msgSendFile)
		return
	}

	kind := ocrbot.DetectFileKind(filename, photo)
	logger = logger.With("user_id", msg.From.ID, "file_kind", kind.String())

	data, err := b.download(ctx, fileID)
	if err != nil {
		logger.Error("file download failed", "err", err)
		b.reply(logger, msg.Chat.ID, msgGenericFailure)
		return
	}

	extraction, err := b.pipeline.Process(ctx, msg.From.ID, filename, photo, data)
	if err != nil {
		if code := ocrbot.ErrorCode(err); code != ocrbot.ENOTEXT && code != ocrbot.EUNSUPPORTED {
			logger.Error("extraction failed", "err", err)
		}
		b.reply(logger, msg.Chat.ID, processFailureText(err, kind))
		return
	}

	logger.Info("extraction stored", "source", extraction.Source, "text_len", len(extraction.Text))

	if extraction.Text == "" {
		b.reply(logger, msg.Chat.ID, emptyTextReply(extraction.Source))
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, confirmationText(extraction.Source, extraction.Text))
	out.ReplyMarkup = saveKeyboard()
	if _, err := b.api.Send(out); err != nil {
		logger.Error("send confirmation failed", "err", err)
	}
}

// emptyTextReply words the "nothing recognized" outcome. The extraction
// is stored anyway; the user just gets no save buttons for it.
func emptyTextReply(source ocrbot.SourceKind) string {
	if source == ocrbot.SourcePDF {
		return "Текст не обнаружен в изображении из PDF."
	}
	return msgNoTextImage
}

func (b *Bot) handleCallback(ctx context.Context, logger *slog.Logger, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		logger.Error("answer callback failed", "err", err)
	}
	if q.Message == nil {
		return
	}
	chatID := q.Message.Chat.ID

	format, ok := parseSaveCallback(q.Data)
	if !ok {
		logger.Warn("unknown callback data", "data", q.Data)
		return
	}
	logger = logger.With("user_id", q.From.ID, "format", string(format))

	extraction, err := b.sessions.Get(ctx, q.From.ID)
	if err != nil {
		if ocrbot.ErrorCode(err) != ocrbot.ENOTFOUND {
			logger.Error("session lookup failed", "err", err)
		}
		b.reply(logger, chatID, msgNothingToSave)
		return
	}
	if extraction.Text == "" {
		b.reply(logger, chatID, msgNothingToSave)
		return
	}

	path, cleanup, err := b.exports.Spool(format, extraction.Text)
	if err != nil {
		logger.Error("export failed", "err", err)
		b.reply(logger, chatID, msgSaveError)
		return
	}
	defer cleanup()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "Файл сохранён как " + format.FileName()
	if _, err := b.api.Send(doc); err != nil {
		logger.Error("send document failed", "err", err)
		b.reply(logger, chatID, msgSaveError)
		return
	}
	logger.Info("export delivered")
}

// download fetches the file contents from the bot API file storage.
func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
}

// reply sends a plain text message, logging instead of failing when the
// send itself goes wrong.
func (b *Bot) reply(logger *slog.Logger, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Error("send reply failed", "err", err)
	}
}
