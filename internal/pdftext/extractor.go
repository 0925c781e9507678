// Package pdftext extracts plain text from PDF documents so archived copies
// become searchable.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// maxInputBytes bounds what the extractor will parse. Archive jobs buffer the
// whole file in memory, so anything past this is indexed as binary only.
const maxInputBytes = 64 << 20

// ErrTooLarge is returned for PDFs over the extraction size limit.
var ErrTooLarge = errors.New("pdf exceeds extraction size limit")

// Extract reads PDF bytes and returns their plain text. Pages that cannot be
// decoded (scanned or image-only pages are common in uploaded paperwork) are
// skipped rather than failing the whole document; the error path is reserved
// for input that is not a parseable PDF at all.
func Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf")
	}
	if int64(len(data)) > maxInputBytes {
		return "", ErrTooLarge
	}
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("new pdf reader: %w", err)
	}
	var builder strings.Builder
	total := doc.NumPage()
	for page := 1; page <= total; page++ {
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String()), nil
}
