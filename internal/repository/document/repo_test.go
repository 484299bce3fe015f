package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docsift/docsift/internal/domain"
)

// --- Save ---

func TestSave_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()
	doc := testDocument(t)

	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "docsift:pdf:doc-1" {
			t.Errorf("unexpected key: %s", key)
		}
		if fields["id"] != "doc-1" {
			t.Errorf("unexpected id field: %s", fields["id"])
		}
		if fields["filename"] != "report.pdf" {
			t.Errorf("unexpected filename field: %s", fields["filename"])
		}
		if fields["size"] != "1024" {
			t.Errorf("unexpected size field: %s", fields["size"])
		}
		if fields["uploaded_at"] != "2024-05-10T12:00:00Z" {
			t.Errorf("unexpected uploaded_at field: %s", fields["uploaded_at"])
		}
		return nil
	}

	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSave_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()
	doc := testDocument(t)

	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection lost")
	}

	if err := repo.Save(ctx, doc); err == nil {
		t.Fatal("expected error on HSET failure")
	}
}

// --- Get ---

func TestGet_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "docsift:pdf:doc-1" {
			t.Errorf("unexpected key: %s", key)
		}
		return testHash("doc-1", testUploadedAt), nil
	}

	doc, err := repo.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-1" {
		t.Fatalf("expected ID doc-1, got %s", doc.ID())
	}
	if doc.Filename() != "doc-1.pdf" {
		t.Fatalf("unexpected filename: %s", doc.Filename())
	}
	if doc.Size() != 512 {
		t.Fatalf("unexpected size: %d", doc.Size())
	}
	if !doc.UploadedAt().Equal(testUploadedAt) {
		t.Fatalf("unexpected uploaded_at: %v", doc.UploadedAt())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.Get(ctx, "nonexistent")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return nil, errors.New("connection lost")
	}

	if _, err := repo.Get(ctx, "doc-1"); err == nil {
		t.Fatal("expected error on HGETALL failure")
	}
}

func TestGet_InvalidHash(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"id": "doc-1", "size": "not-a-number"}, nil
	}

	if _, err := repo.Get(ctx, "doc-1"); err == nil {
		t.Fatal("expected error for corrupt record")
	}
}

// --- All ---

func TestAll_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "docsift:pdf:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"docsift:pdf:doc-2", "docsift:pdf:doc-1"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		if len(keys) != 2 {
			t.Errorf("expected 2 keys, got %d", len(keys))
		}
		// doc-2 загружен позже — проверяем сортировку по uploaded_at
		return []map[string]string{
			testHash("doc-2", testUploadedAt.Add(time.Hour)),
			testHash("doc-1", testUploadedAt),
		}, nil
	}

	docs, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID() != "doc-1" || docs[1].ID() != "doc-2" {
		t.Errorf("expected order [doc-1 doc-2], got [%s %s]", docs[0].ID(), docs[1].ID())
	}
}

func TestAll_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) { return nil, nil }
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		t.Error("HGetAllMulti should not be called for empty scan")
		return nil, nil
	}

	docs, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestAll_TiesBrokenByID(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"docsift:pdf:doc-b", "docsift:pdf:doc-a"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{
			testHash("doc-b", testUploadedAt),
			testHash("doc-a", testUploadedAt),
		}, nil
	}

	docs, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs[0].ID() != "doc-a" || docs[1].ID() != "doc-b" {
		t.Errorf("expected order [doc-a doc-b], got [%s %s]", docs[0].ID(), docs[1].ID())
	}
}

func TestAll_SkipsVanishedKeys(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"docsift:pdf:doc-1", "docsift:pdf:gone"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{
			testHash("doc-1", testUploadedAt),
			{},
		}, nil
	}

	docs, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "doc-1" {
		t.Errorf("unexpected documents: %v", docs)
	}
}

func TestAll_ParseError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"docsift:pdf:doc-1"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{{"id": "doc-1", "size": "garbage"}}, nil
	}

	if _, err := repo.All(ctx); err == nil {
		t.Fatal("expected error for corrupt record")
	}
}

// --- Delete ---

func TestDelete_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	var delCalled bool
	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		return key == "docsift:pdf:doc-1", nil
	}
	ms.delFn = func(_ context.Context, key string) error {
		delCalled = true
		if key != "docsift:pdf:doc-1" {
			t.Errorf("unexpected DEL key: %s", key)
		}
		return nil
	}

	if err := repo.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delCalled {
		t.Error("expected DEL to be called")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }
	ms.delFn = func(_ context.Context, _ string) error {
		t.Error("DEL should not be called for missing document")
		return nil
	}

	err := repo.Delete(ctx, "nonexistent")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDelete_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.delFn = func(_ context.Context, _ string) error {
		return errors.New("connection lost")
	}

	if err := repo.Delete(ctx, "doc-1"); err == nil {
		t.Fatal("expected error on DEL failure")
	}
}

// --- Count ---

func TestCount(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"docsift:pdf:a", "docsift:pdf:b", "docsift:pdf:c"}, nil
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
}

func TestCount_ScanError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return nil, errors.New("connection lost")
	}

	if _, err := repo.Count(ctx); err == nil {
		t.Fatal("expected error on SCAN failure")
	}
}
