package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// typingInterval stays under the 5s lifetime of a chat action.
const typingInterval = 4 * time.Second

// startTyping shows "typing…" in the chat while a backend call is in flight.
// The returned stop func must be called once the flow is done.
func startTyping(ctx context.Context, bot BotAPI, chatID int64) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	sendTyping := func() {
		if _, err := bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			ctxzap.Debug(ctx, "failed to send typing action", zap.Error(err))
		}
	}

	sendTyping()
	go func() {
		defer close(done)
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sendTyping()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
