package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultDocumentName = "document"

// DocumentHandler runs the upload flow for a file sent to the chat
type DocumentHandler struct {
	BaseHandler
	bot        BotAPI
	chatUC     ChatUsecase
	downloader FileDownloader
	logger     *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	bot BotAPI,
	chatUC ChatUsecase,
	downloader FileDownloader,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindDocument,
			messageSender: NewMessageSender(bot, logger),
		},
		bot:        bot,
		chatUC:     chatUC,
		downloader: downloader,
		logger:     logger,
	}
}

// Handle implements Handler
func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	sessionID := SessionID(msg.ChatID)
	if _, err := h.chatUC.EnsureSession(ctx, sessionID); err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}

	stopTyping := startTyping(ctx, h.bot, msg.ChatID)
	defer stopTyping()

	var file *entity.FileData
	if msg.Document != nil {
		content, err := h.downloader.Download(ctx, msg.Document.FileID)
		if errors.Is(err, ErrDocumentTooLarge) {
			h.sendMessage(msg.ChatID, render.RenderFileTooLarge(MaxDocumentSize), nil)
			return nil
		}
		if err != nil {
			ctxzap.Error(ctx, "failed to download document",
				zap.Error(err),
				zap.String("file_id", msg.Document.FileID),
			)
			h.sendMessage(msg.ChatID, render.ErrDownloadFailed, nil)
			return nil
		}

		name := msg.Document.FileName
		if name == "" {
			name = defaultDocumentName
		}
		file = &entity.FileData{Filename: name, Content: content}
	}

	notice, err := h.chatUC.Upload(ctx, sessionID, file)
	if err != nil {
		return err
	}

	return h.deliverNotice(ctx, msg.ChatID, notice)
}
