package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	scorererrors "resume-scorer/internal/errors"
)

// PDFText extracts plain text from an in-memory PDF. Pages that fail to
// decode are skipped; a document with no extractable text at all is an
// extraction failure.
func PDFText(data []byte) (text string, err error) {
	// the pdf package panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: unreadable pdf: %v", scorererrors.ErrExtraction, r)
		}
	}()

	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", scorererrors.ErrExtraction)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", scorererrors.ErrExtraction, err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	out := strings.TrimSpace(builder.String())
	if out == "" {
		return "", fmt.Errorf("%w: no extractable text in pdf", scorererrors.ErrExtraction)
	}

	return out, nil
}
