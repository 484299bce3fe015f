package upload

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK("report.pdf", "doc-1")
	if r.Filename() != "report.pdf" {
		t.Errorf("Filename() = %q", r.Filename())
	}
	if r.ID() != "doc-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Status() != StatusOK {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("extraction failed")
	r := NewError("broken.pdf", err)
	if r.Filename() != "broken.pdf" {
		t.Errorf("Filename() = %q", r.Filename())
	}
	if r.ID() != "" {
		t.Errorf("ID() = %q, want empty", r.ID())
	}
	if r.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusError)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusOK != "ok" {
		t.Errorf("StatusOK = %q", StatusOK)
	}
	if StatusError != "error" {
		t.Errorf("StatusError = %q", StatusError)
	}
}
