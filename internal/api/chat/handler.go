package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/pkg/logger"
	"github.com/futig/rag-client/internal/pkg/response"
	chatuc "github.com/futig/rag-client/internal/usecase/chat"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// multipartOverhead is allowed on top of the file size for headers and boundaries.
const multipartOverhead = 1 << 20

type Handler struct {
	usecase ChatUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase ChatUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

type chatRequest struct {
	Query string `json:"query"`
}

// StartSession handles POST /api/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartSession")

	session, err := h.usecase.StartSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, startSessionResponse{SessionID: session.ID})
}

// GetSession handles GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetSession")

	session, err := h.usecase.GetSession(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// Upload handles POST /api/sessions/{id}/upload. A request without a
// "file" part is the nothing-selected case and still gets a notice.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")
	sessionID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxFileSize+multipartOverhead)

	file, err := h.readUpload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			ctxzap.Warn(ctx, "upload body too large", zap.Int64("limit", maxErr.Limit))
			response.Notice(w, &entity.Notice{
				Kind: entity.NoticeWarning,
				Text: fmt.Sprintf(chatuc.MsgInvalidFile, entity.ErrFileTooLarge),
			})
			return
		}
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data", err)
		return
	}

	notice, err := h.usecase.Upload(ctx, sessionID, file)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Notice(w, notice)
}

func (h *Handler) readUpload(r *http.Request) (*entity.FileData, error) {
	if err := r.ParseMultipartForm(h.cfg.MaxFileSize + multipartOverhead); err != nil {
		return nil, err
	}

	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}

	return &entity.FileData{Filename: header.Filename, Content: content}, nil
}

// Chat handles POST /api/sessions/{id}/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	notice, err := h.usecase.Ask(ctx, chi.URLParam(r, "id"), req.Query)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Notice(w, notice)
}

// Transcript handles GET /api/sessions/{id}/transcript?format=md|pdf|docx
func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Transcript")

	format, err := entity.ParseResultFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "format must be one of md, pdf, docx", err)
		return
	}

	file, err := h.usecase.ExportTranscript(ctx, chi.URLParam(r, "id"), format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if err := response.Attachment(w, file); err != nil {
		ctxzap.Warn(ctx, "failed to write transcript", zap.Error(err))
	}
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "session not found", err)
	case errors.Is(err, entity.ErrEmptyTranscript):
		h.respondError(ctx, w, http.StatusNotFound, chatuc.MsgEmptyTranscript, err)
	case errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "format must be one of md, pdf, docx", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
