// Package extract pulls plain text out of uploaded PDF bytes. It owns
// the upload limits: file size and the .pdf extension check.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docsift/docsift/internal/domain"
)

// DefaultMaxFileSize is the upload size limit (10 MB).
const DefaultMaxFileSize int64 = 10 << 20

// Extractor converts PDF bytes to plain text. Stateless and safe for
// concurrent use.
type Extractor struct {
	maxFileSize int64
}

// NewExtractor creates an extractor with the default size limit.
func NewExtractor() *Extractor {
	return &Extractor{maxFileSize: DefaultMaxFileSize}
}

// WithMaxFileSize configures the upload size limit in bytes.
func (e *Extractor) WithMaxFileSize(n int64) *Extractor {
	if n > 0 {
		e.maxFileSize = n
	}
	return e
}

// MaxFileSize returns the configured upload size limit.
func (e *Extractor) MaxFileSize() int64 { return e.maxFileSize }

// ValidFilename reports whether the name carries a .pdf extension
// (case-insensitive), mirroring the upload contract.
func ValidFilename(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// Extract parses the PDF and returns its text content and page count.
// Page texts are joined by newlines and trimmed. A PDF whose pages carry
// no text at all (scans, pure images) is an error, not an empty string.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	if size := int64(len(data)); size > e.maxFileSize {
		return "", 0, domain.NewFileTooLarge(size, e.maxFileSize)
	}

	text, pages, err := parse(data)
	if err != nil {
		return "", 0, fmt.Errorf("parse pdf: %w: %w", err, domain.ErrInvalidPDF)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", 0, domain.ErrEmptyPDF
	}
	return text, pages, nil
}

// parse isolates the reader because it panics on some malformed files.
func parse(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}

	pages = reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", i, err)
		}
		if i > 1 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), pages, nil
}
