package formatter

import (
	"bytes"
	"os"

	"github.com/futig/rag-client/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// PDF_FONT_PATH points at a TTF with wide Unicode coverage, e.g. DejaVuSans.
	// Without it the cp1252 core font is used and other scripts degrade.
	pdfFontEnv      = "PDF_FONT_PATH"
	pdfUnicodeFont  = "TranscriptSans"
	pdfFallbackFont = "Helvetica"
)

type PDFFormatter struct {
	fontPath string
}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{fontPath: os.Getenv(pdfFontEnv)}
}

// pdfWriter carries the font choice and the text translator that goes with it.
type pdfWriter struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

func (mf *PDFFormatter) newWriter() *pdfWriter {
	pdf := gofpdf.New("P", "mm", "A4", "")
	w := &pdfWriter{pdf: pdf, font: pdfFallbackFont, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	if mf.fontPath != "" {
		if _, err := os.Stat(mf.fontPath); err == nil {
			pdf.AddUTF8Font(pdfUnicodeFont, "", mf.fontPath)
			pdf.AddUTF8Font(pdfUnicodeFont, "B", mf.fontPath)
			w.font = pdfUnicodeFont
			w.tr = func(s string) string { return s }
		}
	}
	return w
}

func (w *pdfWriter) text(style string, size float64, s string) {
	w.pdf.SetFont(w.font, style, size)
	_, lineHeight := w.pdf.GetFontSize()
	w.pdf.MultiCell(0, lineHeight*1.5, w.tr(s), "", "", false)
}

func (mf *PDFFormatter) Format(t *entity.Transcript) ([]byte, error) {
	w := mf.newWriter()
	w.pdf.AddPage()

	w.text("B", 20, baseTitle)
	if t.DocumentName != "" {
		w.pdf.SetTextColor(90, 90, 90)
		w.text("", 11, documentLabel+t.DocumentName)
		w.pdf.SetTextColor(0, 0, 0)
	}

	for _, ex := range t.Exchanges {
		w.pdf.Ln(4)
		w.text("B", 13, questionPrefix+ex.Question)

		answer := ex.Answer
		if ex.Failed {
			w.pdf.SetTextColor(192, 0, 0)
			answer = failedPrefix + answer
		}
		w.text("", 12, answer)
		w.pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
