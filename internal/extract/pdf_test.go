package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/domain"
)

// buildPDF assembles a minimal one-page PDF showing the given text.
// Object offsets are tracked while writing so the xref table is correct
// by construction.
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 6)
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>")
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	writeObj(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefPos := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes()
}

func TestExtract_ValidPDF(t *testing.T) {
	e := NewExtractor()

	text, pages, err := e.Extract(context.Background(), buildPDF(t, "Hello World"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Hello World") {
		t.Errorf("text = %q, want it to contain %q", text, "Hello World")
	}
	if pages != 1 {
		t.Errorf("pages = %d, want 1", pages)
	}
}

func TestExtract_GarbageBytes(t *testing.T) {
	e := NewExtractor()

	_, _, err := e.Extract(context.Background(), []byte("this is not a pdf at all"))
	if !errors.Is(err, domain.ErrInvalidPDF) {
		t.Fatalf("error = %v, want ErrInvalidPDF", err)
	}
}

func TestExtract_TruncatedPDF(t *testing.T) {
	e := NewExtractor()
	data := buildPDF(t, "Hello World")

	_, _, err := e.Extract(context.Background(), data[:len(data)/2])
	if !errors.Is(err, domain.ErrInvalidPDF) {
		t.Fatalf("error = %v, want ErrInvalidPDF", err)
	}
}

func TestExtract_NoTextIsError(t *testing.T) {
	e := NewExtractor()

	_, _, err := e.Extract(context.Background(), buildPDF(t, ""))
	if !errors.Is(err, domain.ErrEmptyPDF) {
		t.Fatalf("error = %v, want ErrEmptyPDF", err)
	}
}

func TestExtract_FileTooLarge(t *testing.T) {
	e := NewExtractor().WithMaxFileSize(8)

	_, _, err := e.Extract(context.Background(), []byte("123456789"))
	if !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("error = %v, want ErrFileTooLarge", err)
	}

	var tooLarge *domain.FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("error should carry sizes, got %T", err)
	}
	if tooLarge.Size != 9 || tooLarge.Max != 8 {
		t.Errorf("sizes = %d/%d, want 9/8", tooLarge.Size, tooLarge.Max)
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	e := NewExtractor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.Extract(ctx, buildPDF(t, "Hello"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestValidFilename(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"archive.tar.pdf", true},
		{"notes.txt", false},
		{"pdf", false},
		{"report.pdf.exe", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidFilename(tc.name); got != tc.want {
			t.Errorf("ValidFilename(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
