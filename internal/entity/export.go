package entity

import "strings"

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// ParseResultFormat accepts the format names and the usual file extensions.
func ParseResultFormat(s string) (ResultFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	case "docx", "word":
		return FormatDOCX, nil
	default:
		return "", ErrInvalidFormat
	}
}

// ExportedFile is a rendered transcript ready to be written or sent.
type ExportedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Transcript is the exportable view of a session.
type Transcript struct {
	DocumentName string
	Exchanges    []Exchange
}
