package middleware

import (
	"runtime/debug"

	"github.com/futig/rag-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RecoveryMiddleware keeps one failing update from taking the bot down.
type RecoveryMiddleware struct {
	logger *zap.Logger
	bot    Sender
}

func NewRecoveryMiddleware(logger *zap.Logger, bot Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger: logger,
		bot:    bot,
	}
}

// Handle recovers a panic in next and apologises to the chat it came from.
func (m *RecoveryMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		o, ok := updateOrigin(update)
		m.logger.Error("panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()),
			zap.Int("update_id", update.UpdateID),
			zap.Int64("chat_id", o.chatID),
			zap.String("type", o.kind),
		)
		if !ok {
			return
		}

		if _, err := m.bot.Send(tgbotapi.NewMessage(o.chatID, render.ErrGeneric)); err != nil {
			m.logger.Error("failed to send error message",
				zap.Error(err),
				zap.Int64("chat_id", o.chatID),
			)
		}
	}()

	next(update)
}
