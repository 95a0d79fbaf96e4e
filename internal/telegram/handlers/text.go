package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TextHandler runs the query flow for a plain text message
type TextHandler struct {
	BaseHandler
	bot    BotAPI
	chatUC ChatUsecase
	logger *zap.Logger
}

// NewTextHandler creates a new text handler
func NewTextHandler(bot BotAPI, chatUC ChatUsecase, logger *zap.Logger) *TextHandler {
	return &TextHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindText,
			messageSender: NewMessageSender(bot, logger),
		},
		bot:    bot,
		chatUC: chatUC,
		logger: logger,
	}
}

// Handle implements Handler
func (h *TextHandler) Handle(ctx context.Context, msg *Message) error {
	sessionID := SessionID(msg.ChatID)
	if _, err := h.chatUC.EnsureSession(ctx, sessionID); err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}

	stopTyping := startTyping(ctx, h.bot, msg.ChatID)
	defer stopTyping()

	notice, err := h.chatUC.Ask(ctx, sessionID, msg.Text)
	if err != nil {
		return err
	}

	return h.deliverNotice(ctx, msg.ChatID, notice)
}
