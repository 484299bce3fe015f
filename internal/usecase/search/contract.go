package search

import (
	"context"

	domdoc "github.com/docsift/docsift/internal/domain/document"
)

// DocumentSource lists stored documents for index builds.
type DocumentSource interface {
	All(ctx context.Context) ([]domdoc.Document, error)
}

// SentimentScorer rates document tone on a -1..1 scale.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}
