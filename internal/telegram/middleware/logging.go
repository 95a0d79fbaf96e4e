package middleware

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// LoggingMiddleware logs every update with its sender and how long it took.
type LoggingMiddleware struct {
	logger *zap.Logger
}

func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

func (m *LoggingMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	start := time.Now()
	o, _ := updateOrigin(update)

	log := m.logger.With(
		zap.Int("update_id", update.UpdateID),
		zap.Int64("user_id", o.userID),
		zap.Int64("chat_id", o.chatID),
		zap.String("type", o.kind),
	)
	log.Info("telegram update received")

	next(update)

	log.Debug("telegram update processed", zap.Duration("duration", time.Since(start)))
}
