package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/pkg/logger"
	"github.com/futig/rag-client/internal/pkg/validator"
	pkghttp "github.com/futig/rag-client/pkg/http"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase runs the upload and query flows against one session.
// User-facing outcomes are returned as notices; the error return is
// reserved for session storage failures.
type ChatUsecase struct {
	store        SessionStore
	validator    FileValidator
	ragConnector RagConnector
	formatters   FormatterFactory
	logger       *zap.Logger
	now          func() time.Time
}

// NewUsecase creates a new chat use case
func NewUsecase(
	store SessionStore,
	validator FileValidator,
	ragConnector RagConnector,
	formatters FormatterFactory,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		store:        store,
		validator:    validator,
		ragConnector: ragConnector,
		formatters:   formatters,
		logger:       logger,
		now:          time.Now,
	}
}

// StartSession creates a session with a random ID.
func (uc *ChatUsecase) StartSession(ctx context.Context) (*entity.Session, error) {
	return uc.StartSessionWithID(ctx, uuid.New().String())
}

// StartSessionWithID creates a session in state NotUploaded.
func (uc *ChatUsecase) StartSessionWithID(ctx context.Context, id string) (*entity.Session, error) {
	now := uc.now()
	session := &entity.Session{
		ID:          id,
		UploadState: entity.NotUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "session started", zap.String("session_id", id))
	return session, nil
}

// ResetSession drops whatever the session held and starts over under the same ID.
func (uc *ChatUsecase) ResetSession(ctx context.Context, id string) (*entity.Session, error) {
	if err := uc.store.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	return uc.StartSessionWithID(ctx, id)
}

// EnsureSession returns the session, creating it when it does not exist yet.
func (uc *ChatUsecase) EnsureSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := uc.store.Get(ctx, id)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, entity.ErrSessionNotFound) {
		return nil, fmt.Errorf("get session: %w", err)
	}

	session, err = uc.StartSessionWithID(ctx, id)
	if errors.Is(err, entity.ErrSessionExists) {
		// lost a creation race; the winner's session is fine
		return uc.store.Get(ctx, id)
	}
	return session, err
}

func (uc *ChatUsecase) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// Upload sends the selected file for indexing and marks the session
// Uploaded when the backend confirms. A nil file means nothing was selected.
func (uc *ChatUsecase) Upload(ctx context.Context, sessionID string, file *entity.FileData) (*entity.Notice, error) {
	ctx = logger.WithAction(logger.AddFields(ctx, zap.String("session_id", sessionID)), "Upload")

	if _, err := uc.store.Get(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if err := uc.validator.ValidateUpload(file); err != nil {
		ctxzap.Info(ctx, "upload rejected before sending", zap.Error(err))
		if errors.Is(err, entity.ErrNoFileSelected) {
			return warning(MsgSelectFile), nil
		}
		return warning(fmt.Sprintf(MsgInvalidFile, err)), nil
	}

	file = &entity.FileData{
		Filename: validator.SanitizeFilename(file.Filename),
		Content:  file.Content,
	}

	result, err := uc.ragConnector.UploadDocument(ctx, file)
	if err != nil {
		return uc.transportNotice(ctx, err), nil
	}

	if !result.Accepted {
		ctxzap.Warn(ctx, "upload not accepted", zap.String("message", result.Message))
		return &entity.Notice{Kind: entity.NoticeError, Text: MsgUploadFailed}, nil
	}

	if _, err := uc.store.Update(ctx, sessionID, func(s *entity.Session) error {
		s.MarkUploaded(file.Filename)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("mark session uploaded: %w", err)
	}

	ctxzap.Info(ctx, "document uploaded", zap.String("filename", file.Filename))
	return &entity.Notice{Kind: entity.NoticeSuccess, Text: MsgUploadSuccess}, nil
}

// Ask sends a query once a document is uploaded and the text is non-empty.
// Both preconditions are checked before any request is made.
func (uc *ChatUsecase) Ask(ctx context.Context, sessionID, query string) (*entity.Notice, error) {
	ctx = logger.WithAction(logger.AddFields(ctx, zap.String("session_id", sessionID)), "Ask")

	session, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if err := checkAsk(session, query); err != nil {
		ctxzap.Info(ctx, "query rejected before sending", zap.Error(err))
		if errors.Is(err, entity.ErrDocumentMissing) {
			return warning(MsgUploadFirst), nil
		}
		return warning(MsgEnterQuestion), nil
	}

	var notice *entity.Notice
	exchange := entity.Exchange{Question: query, AskedAt: uc.now()}

	reply, err := uc.ragConnector.Query(ctx, query)
	switch {
	case err != nil:
		notice = uc.transportNotice(ctx, err)
		exchange.Answer = notice.Text
		exchange.Failed = true
	case reply.IsAnswer():
		notice = &entity.Notice{Kind: entity.NoticeSuccess, Text: MsgAnswerPrefix + reply.Answer}
		exchange.Answer = reply.Answer
	default:
		payload := reply.PayloadString()
		ctxzap.Warn(ctx, "chat returned no response text", zap.String("payload", payload))
		notice = &entity.Notice{Kind: entity.NoticeError, Text: MsgErrorPrefix + payload}
		exchange.Answer = payload
		exchange.Failed = true
	}

	if _, err := uc.store.Update(ctx, sessionID, func(s *entity.Session) error {
		s.Exchanges = append(s.Exchanges, exchange)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("record exchange: %w", err)
	}

	return notice, nil
}

// Transcript returns the exchanges of a session in order.
func (uc *ChatUsecase) Transcript(ctx context.Context, sessionID string) ([]entity.Exchange, error) {
	session, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session.Exchanges, nil
}

func (uc *ChatUsecase) transportNotice(ctx context.Context, err error) *entity.Notice {
	if errors.Is(err, entity.ErrMalformedResponse) {
		ctxzap.Error(ctx, "malformed response from RAG service", zap.Error(err))
		return &entity.Notice{Kind: entity.NoticeError, Text: MsgMalformed}
	}

	ctxzap.Error(ctx, "RAG service call failed", zap.Error(err))

	detail := err.Error()
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		detail = netErr.Err.Error()
	}
	return &entity.Notice{Kind: entity.NoticeError, Text: fmt.Sprintf(MsgUnreachable, detail)}
}

// checkAsk applies the query preconditions in order: document first, then text.
func checkAsk(session *entity.Session, query string) error {
	if session.UploadState != entity.Uploaded {
		return entity.ErrDocumentMissing
	}
	if query == "" {
		return entity.ErrEmptyQuery
	}
	return nil
}

func warning(text string) *entity.Notice {
	return &entity.Notice{Kind: entity.NoticeWarning, Text: text}
}
