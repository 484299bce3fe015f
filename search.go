package docsift

import (
	"context"
	"fmt"

	"github.com/docsift/docsift/internal/domain/search/result"
)

// SearchService runs relevance-ranked queries over all stored documents.
type SearchService struct {
	svc searchUseCase
}

// Search ranks every stored document against the query and returns the top
// hits in descending relevance order, each with a contextual snippet and
// the snippet's sentiment score.
func (s *SearchService) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	results, err := s.svc.Search(ctx, query, opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromSearchResults(results), nil
}

func fromSearchResults(results []result.Result) []SearchResult {
	out := make([]SearchResult, len(results))
	for i := range results {
		r := &results[i]
		out[i] = SearchResult{
			ID:         r.PDFID(),
			Filename:   r.Filename(),
			Confidence: r.Confidence(),
			Sentiment:  r.Sentiment(),
			Snippet:    r.Snippet(),
		}
	}
	return out
}
