package formatter

import (
	"bytes"
	"strings"

	"github.com/futig/rag-client/internal/entity"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

var docxFailedColor = color.RGB(0xC0, 0x00, 0x00)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(t *entity.Transcript) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	title := doc.AddParagraph()
	title.SetStyle("Title")
	title.AddRun().AddText(baseTitle)

	if t.DocumentName != "" {
		run := doc.AddParagraph().AddRun()
		run.Properties().SetItalic(true)
		run.AddText(documentLabel + t.DocumentName)
	}

	for _, ex := range t.Exchanges {
		q := doc.AddParagraph()
		q.SetStyle("Heading2")
		q.AddRun().AddText(questionPrefix + ex.Question)

		// Word ignores "\n" inside a run, so every answer line is its own paragraph.
		for i, line := range strings.Split(ex.Answer, "\n") {
			run := doc.AddParagraph().AddRun()
			if ex.Failed {
				run.Properties().SetColor(docxFailedColor)
				if i == 0 {
					line = failedPrefix + line
				}
			}
			run.AddText(line)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
