package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/pkg/logger"
	"github.com/futig/rag-client/internal/telegram/handlers"
	"github.com/futig/rag-client/internal/telegram/keyboard"
	"github.com/futig/rag-client/internal/telegram/middleware"
	"github.com/futig/rag-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	handlers    map[string]handlers.Handler
	chatUC      handlers.ChatUsecase
	exporter    *handlers.Exporter
	logger      *zap.Logger
	middlewares []middleware.Middleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	loopDone    chan struct{}
	wg          sync.WaitGroup
	inFlight    atomic.Int32
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	chatUC handlers.ChatUsecase,
	logger *zap.Logger,
) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is not set")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:      api,
		cfg:      cfg,
		chatUC:   chatUC,
		exporter: handlers.NewExporter(api, chatUC, logger),
		logger:   logger,
		handlers: make(map[string]handlers.Handler),
		stopChan: make(chan struct{}),
	}

	// Rate limiting runs first so dropped updates are neither logged nor handled.
	bot.middlewares = []middleware.Middleware{
		middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewRecoveryMiddleware(logger, api),
	}

	return bot, nil
}

// commands populate the bot's menu in Telegram clients.
var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start over with a new document"},
	{Command: "export", Description: "Download the Q&A transcript"},
	{Command: "help", Description: "How to use the bot"},
}

// Start publishes the command menu and begins long polling. Updates are
// handled with ctx, so cancelling it aborts in-flight flows.
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		// The menu is cosmetic; the bot still works without it.
		b.logger.Warn("failed to set bot commands", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	b.loopDone = make(chan struct{})
	go func() {
		defer close(b.loopDone)
		b.processUpdates(ctxzap.ToContext(ctx, b.logger))
	}()

	b.logger.Info("telegram bot started", zap.Int("update_timeout", u.Timeout))
	return nil
}

// Stop stops polling and waits up to TELEGRAM_SHUTDOWN_TIMEOUT for
// in-flight updates to finish.
func (b *Bot) Stop() error {
	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		// no wg.Add can happen once the loop has returned
		if b.loopDone != nil {
			<-b.loopDone
		}
		b.wg.Wait()
		close(done)
	}()

	timeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("%d updates still running after %s", b.inFlight.Load(), timeout)
	}
}

// processUpdates processes incoming updates, each in its own goroutine
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			b.inFlight.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				defer b.inFlight.Add(-1)
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	middleware.Chain(func(u tgbotapi.Update) { b.handleUpdate(ctx, u) }, b.middlewares...)(update)
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.Int64("chat_id", chatID),
		zap.String("session_id", handlers.SessionID(chatID)),
	))

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	var kind string
	switch {
	case message.Document != nil:
		kind = handlers.HandlerKindDocument
	case message.Text != "":
		kind = handlers.HandlerKindText
	default:
		b.sendMessage(chatID, render.MsgUnsupportedContent, nil)
		return
	}

	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for update kind", zap.String("kind", kind))
		b.sendError(chatID, render.ErrGeneric)
		return
	}

	msg := &handlers.Message{
		ChatID:    chatID,
		MessageID: message.MessageID,
		Text:      message.Text,
		Document:  message.Document,
	}
	if message.From != nil {
		msg.UserID = message.From.ID
	}

	if err := handler.Handle(ctx, msg); err != nil {
		handlers.ReportError(logger.AddFields(ctx, zap.String("kind", kind)), b.api, chatID, err, "handler error")
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	ctxzap.Info(ctx, "command received", zap.String("command", command))

	switch command {
	case "start":
		b.handleStartCommand(ctx, chatID)
	case "help":
		b.sendMessage(chatID, render.MsgHelp, nil)
	case "export":
		b.handleExportCommand(ctx, chatID, strings.TrimSpace(message.CommandArguments()))
	default:
		b.sendError(chatID, render.ErrUnknownCommand)
	}
}

// handleStartCommand drops the chat session and opens a fresh one
func (b *Bot) handleStartCommand(ctx context.Context, chatID int64) {
	if _, err := b.chatUC.ResetSession(ctx, handlers.SessionID(chatID)); err != nil {
		handlers.ReportError(ctx, b.api, chatID, err, "failed to reset session")
		return
	}

	if _, err := b.sendMessage(chatID, render.MsgWelcome, nil); err != nil {
		ctxzap.Error(ctx, "failed to send welcome message", zap.Error(err))
	}
}

// handleExportCommand sends the transcript, or asks for a format when none is given
func (b *Bot) handleExportCommand(ctx context.Context, chatID int64, format string) {
	if format == "" {
		b.sendMessage(chatID, render.MsgChooseExportFormat, keyboard.ExportKeyboard())
		return
	}

	if err := b.exporter.Export(ctx, chatID, format); err != nil {
		handlers.ReportError(ctx, b.api, chatID, err, "failed to export transcript")
	}
}

// handleCallbackQuery handles callback button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.answerCallback(query.ID, "")
		return
	}

	chatID := query.Message.Chat.ID
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.Int64("chat_id", chatID)))

	handler, exists := b.handlers[handlers.HandlerKindCallback]
	if !exists {
		ctxzap.Warn(ctx, "callback handler not registered")
		b.answerCallback(query.ID, "❌ Handler not found")
		return
	}

	// Answer right away so Telegram does not treat the query as stale
	b.answerCallback(query.ID, "⏳ Working on it...")

	msg := &handlers.Message{
		ChatID:       chatID,
		UserID:       query.From.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}

	if err := handler.Handle(ctx, msg); err != nil {
		handlers.ReportError(logger.AddFields(ctx, zap.String("data", query.Data)), b.api, chatID, err, "callback handler error")
	}
}

// sendMessage sends a message to chat
func (b *Bot) sendMessage(chatID int64, text string, replyMarkup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	return b.api.Send(msg)
}

// sendError sends an error message
func (b *Bot) sendError(chatID int64, text string) {
	if _, err := b.sendMessage(chatID, text, nil); err != nil {
		b.logger.Error("failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

// RegisterHandler registers a handler for an update kind
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	kind := handler.GetKind()

	if !handlers.IsValidKind(kind) {
		b.logger.Fatal("invalid handler kind",
			zap.String("kind", kind),
		)
	}

	b.handlers[kind] = handler
	b.logger.Info("handler registered",
		zap.String("kind", kind),
	)
}

// GetAPI returns the bot API instance (for handlers)
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

// GetExporter returns the transcript exporter (for handlers)
func (b *Bot) GetExporter() *handlers.Exporter {
	return b.exporter
}
