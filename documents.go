package docsift

import (
	"context"
	"fmt"

	domdoc "github.com/docsift/docsift/internal/domain/document"
	"github.com/docsift/docsift/internal/domain/upload"
	documentuc "github.com/docsift/docsift/internal/usecase/document"
)

// DocumentService manages stored PDF documents.
type DocumentService struct {
	svc documentUseCase
}

// Upload extracts the text of a single PDF and stores it.
func (s *DocumentService) Upload(ctx context.Context, filename string, content []byte) (Document, error) {
	doc, err := s.svc.Upload(ctx, filename, content)
	if err != nil {
		return Document{}, fmt.Errorf("upload: %w", err)
	}
	return fromInternalDocument(doc), nil
}

// UploadAll stores a batch of PDFs and reports a per-file outcome for each.
// A failed file never aborts the rest of the batch.
func (s *DocumentService) UploadAll(ctx context.Context, files []UploadFile) ([]UploadResult, error) {
	items := make([]documentuc.File, len(files))
	for i, f := range files {
		items[i] = documentuc.File{Filename: f.Filename, Data: f.Content}
	}
	results, err := s.svc.UploadAll(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("upload all: %w", err)
	}
	return fromUploadResults(results), nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (Document, error) {
	d, err := s.svc.Get(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Delete removes a document by ID.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *DocumentService) Count(ctx context.Context) (int, error) {
	n, err := s.svc.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func fromInternalDocument(d domdoc.Document) Document {
	return Document{
		ID:         d.ID(),
		Filename:   d.Filename(),
		Text:       d.Text(),
		Size:       d.Size(),
		UploadedAt: d.UploadedAt(),
	}
}

func fromUploadResults(results []upload.Result) []UploadResult {
	out := make([]UploadResult, len(results))
	for i, r := range results {
		out[i] = UploadResult{
			ID:       r.ID(),
			Filename: r.Filename(),
			OK:       r.Status() == upload.StatusOK,
			Err:      r.Err(),
		}
	}
	return out
}
