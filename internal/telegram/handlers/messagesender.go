package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/rag-client/internal/entity"
	pkgRetry "github.com/futig/rag-client/internal/pkg/retry"
	"github.com/futig/rag-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Flow outcomes and transcripts are what the user waited for, so they are
// retried. Prompts and hints go out once.
var deliveryRetry = pkgRetry.RetryConfig{
	Attempts: 3,
	Delay:    time.Second,
	MaxDelay: 4 * time.Second,
}

// MessageSender wraps outgoing messages with logging and delivery retries.
type MessageSender struct {
	bot    BotAPI
	logger *zap.Logger
	retry  pkgRetry.RetryConfig
}

func NewMessageSender(bot BotAPI, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		bot:    bot,
		logger: logger,
		retry:  deliveryRetry,
	}
}

// Send sends one message without retrying.
func (s *MessageSender) Send(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := s.bot.Send(msg); err != nil {
		s.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}
	return nil
}

// DeliverNotice sends a flow outcome, split to fit the message limit.
// Every chunk is retried; a chunk that still fails aborts the rest.
func (s *MessageSender) DeliverNotice(ctx context.Context, chatID int64, notice *entity.Notice) error {
	for _, chunk := range render.SplitMessage(render.RenderNotice(notice), render.MaxMessageLength) {
		if err := s.deliver(ctx, tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return fmt.Errorf("deliver notice: %w", err)
		}
	}
	return nil
}

// SendDocument uploads an exported file to the chat.
func (s *MessageSender) SendDocument(ctx context.Context, chatID int64, file *entity.ExportedFile) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  file.Filename,
		Bytes: file.Content,
	})

	if err := s.deliver(ctx, doc); err != nil {
		return fmt.Errorf("send document %s: %w", file.Filename, err)
	}
	return nil
}

func (s *MessageSender) deliver(ctx context.Context, c tgbotapi.Chattable) error {
	opts := append(s.retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "failed to send message, retrying",
				zap.Error(err),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", s.retry.Attempts),
			)
		}),
	)

	err := retry.Do(func() error {
		_, err := s.bot.Send(c)
		return err
	}, opts...)
	if err != nil {
		ctxzap.Error(ctx, "failed to send message after all retries", zap.Error(err))
	}
	return err
}
