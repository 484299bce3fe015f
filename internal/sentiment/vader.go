// Package sentiment provides the default polarity scorer: VADER, a
// lexicon-and-rules model tuned for short texts. It runs in-process and
// needs no external service.
package sentiment

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jonreiter/govader"

	"github.com/docsift/docsift/internal/domain"
)

// Scorer computes VADER compound polarity scores. The underlying analyzer
// only reads its lexicon after construction, so one Scorer is safe for
// concurrent use.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a VADER scorer with the bundled English lexicon.
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity in [-1, 1] for a short text.
// Malformed input fails loudly rather than producing a bogus neutral.
func (s *Scorer) Score(_ context.Context, text string) (float64, error) {
	if !utf8.ValidString(text) {
		return 0, fmt.Errorf("text is not valid utf-8: %w", domain.ErrSentiment)
	}
	return s.analyzer.PolarityScores(text).Compound, nil
}
