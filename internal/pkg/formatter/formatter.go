package formatter

import (
	"fmt"

	"github.com/futig/rag-client/internal/entity"
)

const (
	baseTitle      = "Document Q&A transcript"
	documentLabel  = "Document: "
	questionPrefix = "Q: "
	failedPrefix   = "(error) "
)

// Formatter renders a transcript into one file format.
type Formatter interface {
	Format(t *entity.Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidFormat, format)
	}
}
