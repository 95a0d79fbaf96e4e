package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/pkg/formatter"
	"github.com/futig/rag-client/internal/pkg/validator"
	"github.com/futig/rag-client/internal/repository"
	pkghttp "github.com/futig/rag-client/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConnector struct {
	mu          sync.Mutex
	uploadCalls int
	queryCalls  int
	queries     []string
	filenames   []string

	uploadResult *entity.UploadResult
	uploadErr    error
	chatBody     string
	queryErr     error
}

func (f *fakeConnector) UploadDocument(ctx context.Context, file *entity.FileData) (*entity.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	f.filenames = append(f.filenames, file.Filename)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadResult, nil
}

func (f *fakeConnector) Query(ctx context.Context, query string) (*entity.ChatReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	f.queries = append(f.queries, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return entity.NewChatReply([]byte(f.chatBody))
}

func accepted() *entity.UploadResult {
	return entity.NewUploadResult(entity.RAGUploadResponse{Message: ptr("Indexed successfully")})
}

func ptr[T any](v T) *T { return &v }

func newTestUsecase(t *testing.T, conn *fakeConnector) (*ChatUsecase, string) {
	t.Helper()
	store := repository.NewSessionMemory(time.Hour, time.Hour)
	uc := NewUsecase(
		store,
		validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: 1024}),
		conn,
		formatter.NewFactory(),
		zap.NewNop(),
	)
	session, err := uc.StartSession(context.Background())
	require.NoError(t, err)
	return uc, session.ID
}

func pdfFile() *entity.FileData {
	return &entity.FileData{Filename: "doc.pdf", Content: []byte("%PDF-1.4")}
}

func TestUpload_NoFileSelected(t *testing.T) {
	conn := &fakeConnector{}
	uc, id := newTestUsecase(t, conn)

	notice, err := uc.Upload(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.NoticeWarning, notice.Kind)
	assert.Equal(t, MsgSelectFile, notice.Text)
	assert.Zero(t, conn.uploadCalls)
}

func TestUpload_InvalidFileNotSent(t *testing.T) {
	conn := &fakeConnector{}
	uc, id := newTestUsecase(t, conn)

	notice, err := uc.Upload(context.Background(), id, &entity.FileData{Filename: "big.pdf", Content: make([]byte, 2048)})
	require.NoError(t, err)
	assert.Equal(t, entity.NoticeWarning, notice.Kind)
	assert.True(t, strings.HasPrefix(notice.Text, "This file cannot be uploaded: "))
	assert.Zero(t, conn.uploadCalls)
}

func TestUpload_Accepted(t *testing.T) {
	conn := &fakeConnector{uploadResult: accepted()}
	uc, id := newTestUsecase(t, conn)

	notice, err := uc.Upload(context.Background(), id, pdfFile())
	require.NoError(t, err)
	assert.Equal(t, entity.NoticeSuccess, notice.Kind)
	assert.Equal(t, MsgUploadSuccess, notice.Text)

	session, err := uc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.Uploaded, session.UploadState)
	assert.Equal(t, "doc.pdf", session.DocumentName)
}

func TestUpload_SendsSanitizedFilename(t *testing.T) {
	conn := &fakeConnector{uploadResult: accepted()}
	uc, id := newTestUsecase(t, conn)

	original := &entity.FileData{Filename: "../x (1).pdf", Content: []byte("%PDF-1.4")}
	_, err := uc.Upload(context.Background(), id, original)
	require.NoError(t, err)

	assert.Equal(t, []string{"x_1.pdf"}, conn.filenames)
	assert.Equal(t, "../x (1).pdf", original.Filename, "caller's file must not be modified")

	session, err := uc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "x_1.pdf", session.DocumentName)
}

func TestCheckAsk(t *testing.T) {
	pending := &entity.Session{UploadState: entity.NotUploaded}
	ready := &entity.Session{UploadState: entity.Uploaded}

	assert.ErrorIs(t, checkAsk(pending, ""), entity.ErrDocumentMissing)
	assert.ErrorIs(t, checkAsk(pending, "q"), entity.ErrDocumentMissing)
	assert.ErrorIs(t, checkAsk(ready, ""), entity.ErrEmptyQuery)
	assert.NoError(t, checkAsk(ready, "q"))
}

func TestUpload_NotAcceptedKeepsState(t *testing.T) {
	tests := []struct {
		name    string
		message *string
	}{
		{name: "failure message", message: ptr("failed")},
		{name: "missing message", message: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConnector{uploadResult: entity.NewUploadResult(entity.RAGUploadResponse{Message: tt.message})}
			uc, id := newTestUsecase(t, conn)

			notice, err := uc.Upload(context.Background(), id, pdfFile())
			require.NoError(t, err)
			assert.Equal(t, entity.NoticeError, notice.Kind)
			assert.Equal(t, MsgUploadFailed, notice.Text)

			session, err := uc.GetSession(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, entity.NotUploaded, session.UploadState)
		})
	}
}

func TestUpload_FailureAfterSuccessDoesNotReset(t *testing.T) {
	conn := &fakeConnector{uploadResult: accepted()}
	uc, id := newTestUsecase(t, conn)

	_, err := uc.Upload(context.Background(), id, pdfFile())
	require.NoError(t, err)

	conn.uploadResult = entity.NewUploadResult(entity.RAGUploadResponse{Message: ptr("failed")})
	notice, err := uc.Upload(context.Background(), id, pdfFile())
	require.NoError(t, err)
	assert.Equal(t, entity.NoticeError, notice.Kind)

	session, err := uc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.Uploaded, session.UploadState)
}

func TestUpload_TransportFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{
			name:     "unreachable",
			err:      &pkghttp.NetworkError{Err: errors.New("connection refused")},
			wantText: "Could not reach the server: connection refused",
		},
		{
			name:     "malformed",
			err:      fmt.Errorf("upload: %w", entity.ErrMalformedResponse),
			wantText: MsgMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConnector{uploadErr: tt.err}
			uc, id := newTestUsecase(t, conn)

			notice, err := uc.Upload(context.Background(), id, pdfFile())
			require.NoError(t, err)
			assert.Equal(t, entity.NoticeError, notice.Kind)
			assert.Equal(t, tt.wantText, notice.Text)

			session, err := uc.GetSession(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, entity.NotUploaded, session.UploadState)
		})
	}
}

func TestUpload_UnknownSession(t *testing.T) {
	uc, _ := newTestUsecase(t, &fakeConnector{uploadResult: accepted()})

	_, err := uc.Upload(context.Background(), "missing", pdfFile())
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestAsk_BeforeUpload(t *testing.T) {
	conn := &fakeConnector{chatBody: `{"response":"X"}`}
	uc, id := newTestUsecase(t, conn)

	for _, q := range []string{"What is X?", ""} {
		notice, err := uc.Ask(context.Background(), id, q)
		require.NoError(t, err)
		assert.Equal(t, entity.NoticeWarning, notice.Kind)
		assert.Equal(t, MsgUploadFirst, notice.Text)
	}
	assert.Zero(t, conn.queryCalls)
}

func TestAsk_EmptyQuery(t *testing.T) {
	conn := &fakeConnector{uploadResult: accepted(), chatBody: `{"response":"X"}`}
	uc, id := newTestUsecase(t, conn)
	_, err := uc.Upload(context.Background(), id, pdfFile())
	require.NoError(t, err)

	notice, err := uc.Ask(context.Background(), id, "")
	require.NoError(t, err)
	assert.Equal(t, entity.NoticeWarning, notice.Kind)
	assert.Equal(t, MsgEnterQuestion, notice.Text)
	assert.Zero(t, conn.queryCalls)
}

func TestAsk_WhitespaceQueryIsSent(t *testing.T) {
	conn := &fakeConnector{uploadResult: accepted(), chatBody: `{"response":"?"}`}
	uc, id := newTestUsecase(t, conn)
	_, err := uc.Upload(context.Background(), id, pdfFile())
	require.NoError(t, err)

	_, err = uc.Ask(context.Background(), id, "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{"   "}, conn.queries)
}

func TestAsk_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		queryErr error
		wantKind entity.NoticeKind
		wantText string
	}{
		{
			name:     "answer",
			body:     `{"response":"X is ..."}`,
			wantKind: entity.NoticeSuccess,
			wantText: "AI Response: X is ...",
		},
		{
			name:     "error payload",
			body:     `{"error": "bad request"}`,
			wantKind: entity.NoticeError,
			wantText: `Error: {"error":"bad request"}`,
		},
		{
			name:     "non-string response",
			body:     `{"response": 42}`,
			wantKind: entity.NoticeError,
			wantText: `Error: {"response":42}`,
		},
		{
			name:     "unreachable",
			queryErr: &pkghttp.NetworkError{Err: errors.New("timeout")},
			wantKind: entity.NoticeError,
			wantText: "Could not reach the server: timeout",
		},
		{
			name:     "malformed",
			queryErr: entity.ErrMalformedResponse,
			wantKind: entity.NoticeError,
			wantText: MsgMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConnector{uploadResult: accepted(), chatBody: tt.body, queryErr: tt.queryErr}
			uc, id := newTestUsecase(t, conn)
			_, err := uc.Upload(context.Background(), id, pdfFile())
			require.NoError(t, err)

			notice, err := uc.Ask(context.Background(), id, "What is X?")
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, notice.Kind)
			assert.Equal(t, tt.wantText, notice.Text)
			assert.Equal(t, 1, conn.queryCalls)

			exchanges, err := uc.Transcript(context.Background(), id)
			require.NoError(t, err)
			require.Len(t, exchanges, 1)
			assert.Equal(t, "What is X?", exchanges[0].Question)
			assert.Equal(t, tt.wantKind != entity.NoticeSuccess, exchanges[0].Failed)
		})
	}
}

func TestAsk_ConcurrentWithUpload(t *testing.T) {
	conn := &fakeConnector{uploadResult: accepted(), chatBody: `{"response":"ok"}`}
	uc, id := newTestUsecase(t, conn)
	_, err := uc.Upload(context.Background(), id, pdfFile())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = uc.Ask(context.Background(), id, fmt.Sprintf("q%d", i))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = uc.Upload(context.Background(), id, pdfFile())
		}()
	}
	wg.Wait()

	session, err := uc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.Uploaded, session.UploadState)
	assert.Len(t, session.Exchanges, 20)
}

func TestResetSession(t *testing.T) {
	conn := &fakeConnector{uploadResult: accepted(), chatBody: `{"response":"ok"}`}
	uc, id := newTestUsecase(t, conn)
	_, err := uc.Upload(context.Background(), id, pdfFile())
	require.NoError(t, err)

	session, err := uc.ResetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.NotUploaded, session.UploadState)

	notice, err := uc.Ask(context.Background(), id, "What is X?")
	require.NoError(t, err)
	assert.Equal(t, MsgUploadFirst, notice.Text)
}

func TestEnsureSession(t *testing.T) {
	uc, _ := newTestUsecase(t, &fakeConnector{})

	first, err := uc.EnsureSession(context.Background(), "telegram:42")
	require.NoError(t, err)
	second, err := uc.EnsureSession(context.Background(), "telegram:42")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestExportTranscript(t *testing.T) {
	conn := &fakeConnector{uploadResult: accepted(), chatBody: `{"response":"X is a letter"}`}
	uc, id := newTestUsecase(t, conn)

	_, err := uc.ExportTranscript(context.Background(), id, entity.FormatMarkdown)
	assert.ErrorIs(t, err, entity.ErrEmptyTranscript)

	_, err = uc.Upload(context.Background(), id, pdfFile())
	require.NoError(t, err)
	_, err = uc.Ask(context.Background(), id, "What is X?")
	require.NoError(t, err)

	conn.chatBody = `{"error":"boom"}`
	_, err = uc.Ask(context.Background(), id, "And Y?")
	require.NoError(t, err)

	file, err := uc.ExportTranscript(context.Background(), id, entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "transcript-"+id+".md", file.Filename)
	assert.Equal(t, "text/markdown; charset=utf-8", file.ContentType)

	want := "# Document Q&A transcript\n\n" +
		"Document: doc.pdf\n\n" +
		"## Q: What is X?\n\nX is a letter\n\n" +
		"## Q: And Y?\n\n(error) {\"error\":\"boom\"}\n"
	assert.Equal(t, want, string(file.Content))

	_, err = uc.ExportTranscript(context.Background(), id, entity.ResultFormat("odt"))
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestTranscriptFilename(t *testing.T) {
	assert.Equal(t, "transcript-telegram-42", transcriptFilename("telegram:42"))
}

