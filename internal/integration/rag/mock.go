package rag

import (
	"context"
	"fmt"

	"github.com/futig/rag-client/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without a backend, for demos and local runs.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// UploadDocument accepts every document.
func (m *MockConnector) UploadDocument(ctx context.Context, file *entity.FileData) (*entity.UploadResult, error) {
	ctxzap.Info(ctx, "[MOCK] uploading document",
		zap.String("filename", file.Filename),
		zap.Int("size", len(file.Content)),
	)

	return entity.NewUploadResult(entity.RAGUploadResponse{
		Message: ptr("Document uploaded and indexed successfully."),
	}), nil
}

// Query echoes the question back as the answer.
func (m *MockConnector) Query(ctx context.Context, query string) (*entity.ChatReply, error) {
	ctxzap.Info(ctx, "[MOCK] querying RAG", zap.String("query", query))

	return &entity.ChatReply{
		Answer: fmt.Sprintf("(mock) You asked: %q. A real backend would answer from the uploaded document.", query),
	}, nil
}

func ptr[T any](v T) *T {
	return &v
}
