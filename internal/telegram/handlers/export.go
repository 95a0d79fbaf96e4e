package handlers

import (
	"context"
	"errors"

	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Exporter sends the chat transcript as a document. Shared by the
// /export command and the format buttons.
type Exporter struct {
	BaseHandler
	chatUC ChatUsecase
}

func NewExporter(bot BotAPI, chatUC ChatUsecase, logger *zap.Logger) *Exporter {
	return &Exporter{
		BaseHandler: BaseHandler{messageSender: NewMessageSender(bot, logger)},
		chatUC:      chatUC,
	}
}

// Export renders the transcript of the chat in the named format ("md", "pdf", "docx").
func (e *Exporter) Export(ctx context.Context, chatID int64, formatName string) error {
	format, err := entity.ParseResultFormat(formatName)
	if err != nil {
		e.sendMessage(chatID, render.ErrUnknownFormat, nil)
		return nil
	}

	file, err := e.chatUC.ExportTranscript(ctx, SessionID(chatID), format)
	switch {
	case errors.Is(err, entity.ErrEmptyTranscript), errors.Is(err, entity.ErrSessionNotFound):
		e.sendMessage(chatID, render.MsgExportEmpty, nil)
		return nil
	case err != nil:
		return err
	}

	ctxzap.Info(ctx, "sending transcript",
		zap.Int64("chat_id", chatID),
		zap.String("filename", file.Filename),
	)

	return e.messageSender.SendDocument(ctx, chatID, file)
}
