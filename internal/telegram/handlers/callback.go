package handlers

import (
	"context"
	"fmt"

	"github.com/futig/rag-client/internal/telegram/keyboard"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles inline button clicks
type CallbackHandler struct {
	BaseHandler
	exporter *Exporter
	logger   *zap.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(bot BotAPI, exporter *Exporter, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindCallback,
			messageSender: NewMessageSender(bot, logger),
		},
		exporter: exporter,
		logger:   logger,
	}
}

// Handle implements Handler
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "ignoring malformed callback", zap.Error(err))
		return nil
	}

	switch data.Action {
	case keyboard.ActionExport:
		return h.exporter.Export(ctx, msg.ChatID, data.Value)
	default:
		return fmt.Errorf("unknown callback action: %s", data.Action)
	}
}
