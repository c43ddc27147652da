package pdfutil

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoTextContent is returned when a document parses but contains no
// extractable text (scanned images, empty pages).
var ErrNoTextContent = errors.New("no extractable text in document")

// ExtractText returns the concatenated text of every page in document order,
// pages joined by newline. Pages that fail to decode are skipped; a document
// where nothing decodes at all yields ErrNoTextContent.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	extracted := strings.TrimSpace(b.String())
	if extracted == "" {
		return "", ErrNoTextContent
	}
	return extracted, nil
}

// IsPDF reports whether data starts with the PDF magic header. Cheap check
// for uploads before handing them to the parser.
func IsPDF(data []byte) bool {
	return len(data) >= 5 && bytes.HasPrefix(data, []byte("%PDF-"))
}
