package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/rag-client/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes one "## Q:" section per exchange. Failed answers keep
// their raw payload behind an "(error)" marker.
func (mf *MarkdownFormatter) Format(t *entity.Transcript) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)

	if t.DocumentName != "" {
		fmt.Fprintf(&buf, "%s%s\n\n", documentLabel, t.DocumentName)
	}

	for i, ex := range t.Exchanges {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "## %s%s\n\n", questionPrefix, ex.Question)
		if ex.Failed {
			buf.WriteString(failedPrefix)
		}
		fmt.Fprintf(&buf, "%s\n", ex.Answer)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
