package document

import (
	"fmt"
	"time"
)

// Document is a stored PDF record (immutable value object).
// Text holds the full extracted content; the raw PDF bytes are never kept.
type Document struct {
	id         string
	filename   string
	text       string
	size       int64
	uploadedAt time.Time
}

// New validates and creates a Document.
// ID and filename are required; text must be non-empty (extraction rejects
// empty PDFs before a Document is ever built, this is the last line).
func New(id, filename, text string, size int64, uploadedAt time.Time) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if filename == "" {
		return Document{}, fmt.Errorf("filename is required")
	}
	if text == "" {
		return Document{}, fmt.Errorf("text content is required")
	}
	if size < 0 {
		return Document{}, fmt.Errorf("negative file size %d", size)
	}
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	return Document{
		id:         id,
		filename:   filename,
		text:       text,
		size:       size,
		uploadedAt: uploadedAt,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, filename, text string, size int64, uploadedAt time.Time) Document {
	return Document{id: id, filename: filename, text: text, size: size, uploadedAt: uploadedAt}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Filename returns the original upload filename.
func (d *Document) Filename() string { return d.filename }

// Text returns the full extracted text content.
func (d *Document) Text() string { return d.text }

// Size returns the original PDF size in bytes.
func (d *Document) Size() int64 { return d.size }

// UploadedAt returns the upload timestamp.
func (d *Document) UploadedAt() time.Time { return d.uploadedAt }
