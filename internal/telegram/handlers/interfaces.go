package handlers

import (
	"context"

	"github.com/futig/rag-client/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatUsecase is the part of the chat use case the bot drives.
type ChatUsecase interface {
	EnsureSession(ctx context.Context, id string) (*entity.Session, error)
	ResetSession(ctx context.Context, id string) (*entity.Session, error)
	Upload(ctx context.Context, sessionID string, file *entity.FileData) (*entity.Notice, error)
	Ask(ctx context.Context, sessionID, query string) (*entity.Notice, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) (*entity.ExportedFile, error)
}

// BotAPI is the subset of *tgbotapi.BotAPI the handlers use.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// FileDownloader fetches the content of a file sent to the bot.
type FileDownloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}
