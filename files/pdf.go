package files

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	pdf "rsc.io/pdf"
)

// Minimum number of extracted characters below which a PDF is assumed to be
// scanned (image-only) rather than a text document.
const minExamChars = 50

const defaultMaxChars = 12000 // ~2-3k tokens, avoids blowing context

// ExtractPDFText opens a PDF at filePath and returns extracted text up to maxChars.
// It returns an error if the file can't be read. If maxChars <= 0, a sane default is used.
func ExtractPDFText(filePath string, maxChars int) (out string, err error) {
	// rsc.io/pdf panics on some malformed files; surface that as an error.
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}

	r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}

	// Some PDFs have no text layer; those come back empty.
	var buf bytes.Buffer
	total := r.NumPage()
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		for _, t := range content.Text {
			buf.WriteString(t.S)
		}
		buf.WriteString("\n\n")
		if buf.Len() >= maxChars {
			break
		}
	}
	if buf.Len() == 0 {
		return "", errors.New("pdf has no extractable text layer")
	}
	out = strings.TrimSpace(buf.String())
	if len(out) > maxChars {
		out = out[:maxChars]
	}
	return out, nil
}

// ExamText produces the text to attach to a diagnosis request for one uploaded
// exam. Only PDFs are text-bearing; other media types yield an empty string so
// the caller lists them by filename only. Extraction problems are returned as
// bracketed sentinel text, never as an error: a failed exam must not abort the
// diagnosis.
func ExamText(filePath, mimeType, originalName string) string {
	if mimeType != "application/pdf" {
		return ""
	}
	text, err := ExtractPDFText(filePath, 0)
	return sentinelize(text, err, originalName)
}

func sentinelize(text string, err error, originalName string) string {
	if err != nil {
		return fmt.Sprintf("[Não foi possível extrair texto de %s: %v]", originalName, err)
	}
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < minExamChars {
		return fmt.Sprintf("[PDF %s contém apenas %d caracteres de texto; provavelmente é um exame escaneado sem camada de texto]", originalName, n)
	}
	return text
}
