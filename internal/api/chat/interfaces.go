package chat

import (
	"context"

	"github.com/futig/rag-client/internal/entity"
)

type ChatUsecase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	Upload(ctx context.Context, sessionID string, file *entity.FileData) (*entity.Notice, error)
	Ask(ctx context.Context, sessionID, query string) (*entity.Notice, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) (*entity.ExportedFile, error)
}
