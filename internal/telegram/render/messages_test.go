package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/futig/rag-client/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestRenderNotice(t *testing.T) {
	assert.Equal(t, "✅ AI Response: hi", RenderNotice(&entity.Notice{Kind: entity.NoticeSuccess, Text: "AI Response: hi"}))
	assert.Equal(t, "⚠️ Please enter a question.", RenderNotice(&entity.Notice{Kind: entity.NoticeWarning, Text: "Please enter a question."}))
	assert.Equal(t, "❌ Error: {}", RenderNotice(&entity.Notice{Kind: entity.NoticeError, Text: "Error: {}"}))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	text := strings.Repeat("a", 6) + "\n" + strings.Repeat("b", 6)
	chunks := SplitMessage(text, 10)
	assert.Equal(t, []string{strings.Repeat("a", 6) + "\n", strings.Repeat("b", 6)}, chunks)

	long := strings.Repeat("я", 25)
	chunks = SplitMessage(long, 10)
	assert.Len(t, chunks, 3)
	assert.Equal(t, long, strings.Join(chunks, ""))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrSessionNotFound, ClassifyError(fmt.Errorf("get session: %w", entity.ErrSessionNotFound)))
	assert.Equal(t, ErrTimeout, ClassifyError(context.DeadlineExceeded))
	assert.Equal(t, ErrServiceUnavailable, ClassifyError(errors.New("dial tcp: connection refused")))
	assert.Equal(t, ErrGeneric, ClassifyError(errors.New("boom")))
	assert.Equal(t, ErrGeneric, ClassifyError(nil))
}
