package document

import (
	"context"
	"fmt"
	"sort"

	"github.com/docsift/docsift/internal/domain"
	domdoc "github.com/docsift/docsift/internal/domain/document"
)

// store is the consumer interface for document records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the document and search usecase repositories over a
// hash store.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save stores a document record.
func (r *Repo) Save(ctx context.Context, doc domdoc.Document) error {
	if err := r.store.HSet(ctx, docKey(doc.ID()), documentToHash(doc)); err != nil {
		return fmt.Errorf("hset document %s: %w", doc.ID(), err)
	}
	return nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	m, err := r.store.HGetAll(ctx, docKey(id))
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("hgetall document %s: %w", id, err)
	}
	if len(m) == 0 {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}

	return documentFromHash(m)
}

// All returns every stored document sorted by upload time, then ID.
// Search ranking depends on this order being stable between calls.
func (r *Repo) All(ctx context.Context) ([]domdoc.Document, error) {
	keys, err := r.store.Scan(ctx, docKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	if len(keys) == 0 {
		return []domdoc.Document{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi documents: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			// ключ удалили между Scan и HGetAllMulti
			continue
		}
		doc, err := documentFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse document %s: %w", keys[i], err)
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt().Equal(docs[j].UploadedAt()) {
			return docs[i].UploadedAt().Before(docs[j].UploadedAt())
		}
		return docs[i].ID() < docs[j].ID()
	})

	return docs, nil
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := docKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Count returns the number of stored documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, docKey("*"))
	if err != nil {
		return 0, fmt.Errorf("scan documents: %w", err)
	}
	return len(keys), nil
}

// Key pattern: docsift:pdf:{id}

func docKey(id string) string {
	return fmt.Sprintf("%spdf:%s", domain.KeyPrefix, id)
}
