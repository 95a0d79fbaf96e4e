package chat

import (
	"context"

	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/pkg/formatter"
)

type RagConnector interface {
	UploadDocument(ctx context.Context, file *entity.FileData) (*entity.UploadResult, error)
	Query(ctx context.Context, query string) (*entity.ChatReply, error)
}

// SessionStore persists sessions. Update must be atomic per session.
type SessionStore interface {
	Create(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn func(*entity.Session) error) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

type FileValidator interface {
	ValidateUpload(file *entity.FileData) error
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
