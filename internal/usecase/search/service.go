package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/domain/search/result"
	"github.com/docsift/docsift/internal/index"
	"github.com/docsift/docsift/internal/metrics"
)

// Service handles relevance-ranked search over stored documents. The
// index is rebuilt from the store on every query: corpora are small and
// a fresh build keeps results in sync with uploads and deletes.
type Service struct {
	source      DocumentSource
	scorer      SentimentScorer
	vec         *index.Vectorizer
	pool        *ants.Pool
	defaultTopK int
}

// New creates a search service.
func New(source DocumentSource, scorer SentimentScorer) *Service {
	return &Service{
		source:      source,
		scorer:      scorer,
		vec:         index.NewVectorizer(),
		defaultTopK: index.DefaultTopK,
	}
}

// WithMaxFeatures caps the index vocabulary size.
func (s *Service) WithMaxFeatures(n int) *Service {
	s.vec = s.vec.WithMaxFeatures(n)
	return s
}

// WithDefaultTopK sets the result count used when the caller passes none.
func (s *Service) WithDefaultTopK(n int) *Service {
	if n > 0 {
		s.defaultTopK = n
	}
	return s
}

// WithPool offloads the CPU-bound index build and ranking to a shared
// worker pool, one task per call, so request goroutines are not pinned.
// Without a pool everything runs inline.
func (s *Service) WithPool(pool *ants.Pool) *Service {
	s.pool = pool
	return s
}

// Search ranks stored documents against the query and returns up to topK
// matches with snippets and sentiment scores. An empty store yields an
// empty result, not an error.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]result.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	start := time.Now()

	docs, err := s.source.All(ctx)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		metrics.SearchesTotal.WithLabelValues("success").Inc()
		return []result.Result{}, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text()
	}

	matches, vocabSize, err := s.rank(texts, query, topK)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fit corpus: %w", err)
	}

	results := make([]result.Result, 0, len(matches))
	for _, m := range matches {
		doc := docs[m.Index]

		// Snippet is cut from the original full text; sentiment is scored
		// on the snippet the user actually sees, not the whole document.
		snippet := index.Snippet(doc.Text(), query)
		sentiment, err := s.scorer.Score(ctx, snippet)
		if err != nil {
			metrics.SearchesTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("score document %s: %w", doc.ID(), err)
		}

		results = append(results, result.New(doc.ID(), doc.Filename(), m.Score, sentiment, snippet))
	}

	metrics.SearchesTotal.WithLabelValues("success").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchCorpusDocuments.Observe(float64(len(docs)))
	metrics.SearchVocabularySize.Observe(float64(vocabSize))

	return results, nil
}

// rank builds the per-call model, embeds the query and ranks the corpus.
// The model never outlives the call; concurrent searches share nothing.
func (s *Service) rank(texts []string, query string, topK int) ([]index.Match, int, error) {
	var (
		matches   []index.Match
		vocabSize int
		err       error
	)
	task := func() {
		var model *index.Model
		model, err = s.vec.Fit(texts)
		if err != nil {
			return
		}
		vocabSize = model.Dimensions()
		matches = index.Rank(model.Embed(query), model.Rows(), topK)
	}

	if s.pool != nil {
		done := make(chan struct{})
		if s.pool.Submit(func() { task(); close(done) }) == nil {
			<-done
			return matches, vocabSize, err
		}
		// пул занят — считаем прямо в горутине запроса
	}
	task()
	return matches, vocabSize, err
}
