package document

import (
	"context"

	domdoc "github.com/docsift/docsift/internal/domain/document"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Save(ctx context.Context, doc domdoc.Document) error
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Extractor pulls plain text out of raw PDF bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (text string, pages int, err error)
}
