package handlers

import (
	"context"
	"errors"

	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// errorLevel picks the log level for a failed flow. Caller mistakes are
// warnings, shutdown is informational.
func errorLevel(err error) zapcore.Level {
	switch {
	case errors.Is(err, context.Canceled):
		return zapcore.InfoLevel
	case errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrEmptyTranscript):
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// ReportError logs a failed flow and tells the chat what went wrong.
// Nothing is sent when the bot is shutting down.
func ReportError(ctx context.Context, bot BotAPI, chatID int64, err error, logMessage string) {
	if err == nil {
		return
	}

	if ce := ctxzap.Extract(ctx).Check(errorLevel(err), logMessage); ce != nil {
		ce.Write(zap.Error(err), zap.Int64("chat_id", chatID))
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	if _, sendErr := bot.Send(tgbotapi.NewMessage(chatID, render.ClassifyError(err))); sendErr != nil {
		ctxzap.Error(ctx, "failed to send error message",
			zap.Error(sendErr),
			zap.Int64("chat_id", chatID),
		)
	}
}
