package document

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Valid(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	doc, err := New("doc-1", "report.pdf", "hello world", 1024, at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-1" {
		t.Errorf("ID() = %q", doc.ID())
	}
	if doc.Filename() != "report.pdf" {
		t.Errorf("Filename() = %q", doc.Filename())
	}
	if doc.Text() != "hello world" {
		t.Errorf("Text() = %q", doc.Text())
	}
	if doc.Size() != 1024 {
		t.Errorf("Size() = %d", doc.Size())
	}
	if !doc.UploadedAt().Equal(at) {
		t.Errorf("UploadedAt() = %v, want %v", doc.UploadedAt(), at)
	}
}

func TestNew_ZeroTimeDefaultsToNow(t *testing.T) {
	before := time.Now().UTC()
	doc, err := New("doc-1", "a.pdf", "text", 1, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.UploadedAt().Before(before) {
		t.Errorf("UploadedAt() = %v, want >= %v", doc.UploadedAt(), before)
	}
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New("", "a.pdf", "text", 1, time.Time{})
	if err == nil {
		t.Fatal("expected error for empty ID")
	}
}

func TestNew_EmptyFilename(t *testing.T) {
	_, err := New("doc-1", "", "text", 1, time.Time{})
	if err == nil {
		t.Fatal("expected error for empty filename")
	}
	if !strings.Contains(err.Error(), "filename") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_EmptyText(t *testing.T) {
	_, err := New("doc-1", "a.pdf", "", 1, time.Time{})
	if err == nil {
		t.Fatal("expected error for empty text")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_NegativeSize(t *testing.T) {
	_, err := New("doc-1", "a.pdf", "text", -1, time.Time{})
	if err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	doc := Reconstruct("doc-1", "", "", -5, time.Time{})
	if doc.ID() != "doc-1" {
		t.Errorf("ID() = %q", doc.ID())
	}
	if doc.Filename() != "" || doc.Text() != "" {
		t.Error("Reconstruct should not normalize fields")
	}
}
