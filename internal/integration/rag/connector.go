package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/integration/common"
	pkghttp "github.com/futig/rag-client/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// uploadFieldName is the multipart field the upload endpoint reads.
const uploadFieldName = "file"

type Connector struct {
	config    config.RAGConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RAGConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.Retry, logger),
		config:    cfg,
		logger:    logger,
	}
}

// UploadDocument sends one document for indexing.
// POST {upload_endpoint} with multipart/form-data, field "file".
// The backend reports failures as non-2xx with the same {"message"} body,
// so both are decoded into an UploadResult.
func (c *Connector) UploadDocument(ctx context.Context, file *entity.FileData) (*entity.UploadResult, error) {
	ctxzap.Info(ctx, "uploading document to RAG service",
		zap.String("filename", file.Filename),
		zap.Int("size", len(file.Content)),
	)

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile(uploadFieldName, file.Filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp entity.RAGUploadResponse
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, &resp)
	if err != nil {
		if decodeErr := decodeErrorBody(err, &resp); decodeErr != nil {
			ctxzap.Error(ctx, "failed to upload document", zap.Error(decodeErr))
			return nil, decodeErr
		}
	}

	result := entity.NewUploadResult(resp)
	ctxzap.Info(ctx, "upload answered",
		zap.Bool("accepted", result.Accepted),
		zap.String("message", result.Message),
	)

	return result, nil
}

// Query asks the chat endpoint a question.
// POST {chat_endpoint} with {"query": ...}. Any body that is not a
// non-empty {"response"} comes back as a failure payload.
func (c *Connector) Query(ctx context.Context, query string) (*entity.ChatReply, error) {
	ctxzap.Debug(ctx, "querying RAG service", zap.Int("query_length", len(query)))

	req := &entity.RAGChatRequest{Query: query}

	var raw json.RawMessage
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &raw,
		pkghttp.WithHeader("Content-Type", "application/json"),
	)
	if err != nil {
		var httpErr *pkghttp.HTTPError
		if !errors.As(err, &httpErr) {
			return nil, mapTransportError(err)
		}
		raw = json.RawMessage(httpErr.Body)
		ctxzap.Warn(ctx, "chat endpoint returned error status",
			zap.Int("status", httpErr.StatusCode),
		)
	}

	reply, err := entity.NewChatReply(raw)
	if err != nil {
		return nil, fmt.Errorf("parse chat response: %w", err)
	}

	ctxzap.Debug(ctx, "chat answered", zap.Bool("answer", reply.IsAnswer()))
	return reply, nil
}

// decodeErrorBody recovers the {"message"} body of a non-2xx upload answer.
// Transport failures and undecodable bodies are returned as errors.
func decodeErrorBody(err error, resp *entity.RAGUploadResponse) error {
	var httpErr *pkghttp.HTTPError
	if !errors.As(err, &httpErr) {
		return mapTransportError(err)
	}

	if len(httpErr.Body) == 0 {
		return nil
	}
	if jsonErr := json.Unmarshal(httpErr.Body, resp); jsonErr != nil {
		return fmt.Errorf("%w: HTTP %d", entity.ErrMalformedResponse, httpErr.StatusCode)
	}
	return nil
}

func mapTransportError(err error) error {
	if errors.Is(err, pkghttp.ErrDecodeResponse) {
		return fmt.Errorf("%w: %v", entity.ErrMalformedResponse, err)
	}
	return err
}
