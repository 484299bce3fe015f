package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/docsift/docsift/internal/domain"
)

func TestScore_PositiveText(t *testing.T) {
	s := NewScorer()
	got, err := s.Score(context.Background(), "This report is excellent, clear and genuinely helpful!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got <= 0.05 {
		t.Errorf("compound = %f, want clearly positive", got)
	}
	if got > 1 {
		t.Errorf("compound = %f, out of range", got)
	}
}

func TestScore_NegativeText(t *testing.T) {
	s := NewScorer()
	got, err := s.Score(context.Background(), "This is a terrible, useless and badly broken document.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got >= -0.05 {
		t.Errorf("compound = %f, want clearly negative", got)
	}
	if got < -1 {
		t.Errorf("compound = %f, out of range", got)
	}
}

func TestScore_NeutralText(t *testing.T) {
	s := NewScorer()
	got, err := s.Score(context.Background(), "The quarterly figures are listed in table four.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < -0.3 || got > 0.3 {
		t.Errorf("compound = %f, want near neutral", got)
	}
}

func TestScore_EmptyText(t *testing.T) {
	s := NewScorer()
	got, err := s.Score(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("compound = %f, want 0", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer()
	text := "Surprisingly good results, though the method has flaws."

	first, err := s.Score(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Score(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("scores differ across calls: %f vs %f", first, second)
	}
}

func TestScore_InvalidUTF8(t *testing.T) {
	s := NewScorer()
	_, err := s.Score(context.Background(), "broken \xff input")
	if !errors.Is(err, domain.ErrSentiment) {
		t.Fatalf("error = %v, want ErrSentiment", err)
	}
}
