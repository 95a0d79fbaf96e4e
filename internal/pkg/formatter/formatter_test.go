package formatter

import (
	"bytes"
	"testing"

	"github.com/futig/rag-client/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTranscript() *entity.Transcript {
	return &entity.Transcript{
		DocumentName: "report.pdf",
		Exchanges: []entity.Exchange{
			{Question: "What is X?", Answer: "X is ..."},
			{Question: "And Y?", Answer: `{"error":"bad request"}`, Failed: true},
		},
	}
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	md, err := f.Create(entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, ".md", md.FileExtension())

	pdf, err := f.Create(entity.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType())

	docx, err := f.Create(entity.FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, ".docx", docx.FileExtension())

	_, err = f.Create(entity.ResultFormat("rtf"))
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestMarkdownFormatter_Format(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleTranscript())
	require.NoError(t, err)

	want := "# Document Q&A transcript\n\n" +
		"Document: report.pdf\n\n" +
		"## Q: What is X?\n\nX is ...\n\n" +
		"## Q: And Y?\n\n(error) {\"error\":\"bad request\"}\n"
	assert.Equal(t, want, string(out))
}

func TestMarkdownFormatter_NoDocumentName(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(&entity.Transcript{
		Exchanges: []entity.Exchange{{Question: "q", Answer: "a"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "# Document Q&A transcript\n\n## Q: q\n\na\n", string(out))
}

func TestPDFFormatter_Format(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleTranscript())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFFormatter_MissingFontFallsBack(t *testing.T) {
	f := &PDFFormatter{fontPath: "/nonexistent/font.ttf"}

	out, err := f.Format(sampleTranscript())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
