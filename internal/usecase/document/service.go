package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docsift/docsift/internal/domain"
	domdoc "github.com/docsift/docsift/internal/domain/document"
	"github.com/docsift/docsift/internal/domain/upload"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/metrics"
)

// DefaultMaxUploadFiles caps how many files one upload request may carry.
const DefaultMaxUploadFiles = 20

// File is a single uploaded file as handed over by the transport layer.
type File struct {
	Filename string
	Data     []byte
}

// Service handles upload, retrieval and deletion of PDF documents.
type Service struct {
	repo      Repository
	extractor Extractor
	maxFiles  int
	now       func() time.Time
	newID     func() string
}

// New creates a document service.
func New(repo Repository, extractor Extractor) *Service {
	return &Service{
		repo:      repo,
		extractor: extractor,
		maxFiles:  DefaultMaxUploadFiles,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithMaxUploadFiles overrides the per-request file cap.
func (s *Service) WithMaxUploadFiles(n int) *Service {
	if n > 0 {
		s.maxFiles = n
	}
	return s
}

// MaxUploadFiles returns the per-request file cap.
func (s *Service) MaxUploadFiles() int { return s.maxFiles }

// Upload extracts the text of a single PDF and persists it. The returned
// document carries the generated ID and upload timestamp.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (domdoc.Document, error) {
	doc, err := s.upload(ctx, filename, data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return domdoc.Document{}, err
	}
	metrics.UploadsTotal.WithLabelValues("success").Inc()
	return doc, nil
}

func (s *Service) upload(ctx context.Context, filename string, data []byte) (domdoc.Document, error) {
	if !extract.ValidFilename(filename) {
		return domdoc.Document{}, fmt.Errorf("%w: %q is not a .pdf filename", domain.ErrInvalidInput, filename)
	}
	if len(data) == 0 {
		return domdoc.Document{}, fmt.Errorf("%w: file %q is empty", domain.ErrInvalidInput, filename)
	}

	start := time.Now()
	text, _, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("extract %q: %w", filename, err)
	}
	metrics.ExtractDuration.Observe(time.Since(start).Seconds())

	doc, err := domdoc.New(s.newID(), filename, text, int64(len(data)), s.now().UTC())
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("build document %q: %w", filename, err)
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return domdoc.Document{}, fmt.Errorf("save document %q: %w", filename, err)
	}
	return doc, nil
}

// UploadAll processes a batch of files and reports a per-file outcome for
// each. A failed file never aborts the rest of the batch; only an oversized
// batch is rejected as a whole.
func (s *Service) UploadAll(ctx context.Context, files []File) ([]upload.Result, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", domain.ErrInvalidInput)
	}
	if len(files) > s.maxFiles {
		return nil, fmt.Errorf("%w: got %d files, maximum is %d", domain.ErrInvalidInput, len(files), s.maxFiles)
	}

	results := make([]upload.Result, 0, len(files))
	for _, f := range files {
		doc, err := s.Upload(ctx, f.Filename, f.Data)
		if err != nil {
			results = append(results, upload.NewError(f.Filename, err))
			continue
		}
		results = append(results, upload.NewOK(f.Filename, doc.ID()))
	}
	return results, nil
}

// Get retrieves a stored document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if id == "" {
		return domdoc.Document{}, fmt.Errorf("%w: document ID is empty", domain.ErrInvalidInput)
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// Delete removes a stored document by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: document ID is empty", domain.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}
