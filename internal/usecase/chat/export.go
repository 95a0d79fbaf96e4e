package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/rag-client/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ExportTranscript renders the session transcript in the requested format.
// Returns entity.ErrEmptyTranscript when nothing was asked yet.
func (uc *ChatUsecase) ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) (*entity.ExportedFile, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidFormat, format)
	}

	session, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if len(session.Exchanges) == 0 {
		return nil, entity.ErrEmptyTranscript
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	content, err := f.Format(&entity.Transcript{
		DocumentName: session.DocumentName,
		Exchanges:    session.Exchanges,
	})
	if err != nil {
		return nil, fmt.Errorf("format transcript: %w", err)
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("session_id", sessionID),
		zap.String("format", string(format)),
		zap.Int("exchanges", len(session.Exchanges)),
	)

	return &entity.ExportedFile{
		Filename:    transcriptFilename(sessionID) + f.FileExtension(),
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}

func transcriptFilename(sessionID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, sessionID)
	return "transcript-" + name
}
