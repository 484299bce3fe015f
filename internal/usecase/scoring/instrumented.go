package scoring

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/metrics"
)

// UsageScorer is a sentiment provider that reports token consumption
// alongside the score. The OpenAI transport implements it; the local VADER
// scorer does not (lexicon scoring spends no tokens).
type UsageScorer interface {
	ScoreWithUsage(ctx context.Context, text string) (float64, int, error)
}

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedScorer wraps a UsageScorer with budget enforcement and logging.
// Transport metrics (requests, duration, errors) are recorded in transport/openai.
// This layer owns budget tracking and budget-related metrics only.
type InstrumentedScorer struct {
	inner    UsageScorer
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedScorer wraps a provider with budget and observability.
func NewInstrumentedScorer(
	inner UsageScorer, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedScorer {
	return &InstrumentedScorer{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Score implements domain.SentimentScorer. It checks the budget, delegates
// to the inner provider, and records consumed tokens against the budget and
// the request usage collector.
func (p *InstrumentedScorer) Score(ctx context.Context, text string) (float64, error) {
	// Check budget before making the request
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("Budget exceeded",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Error(err),
			)
			return 0, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()

	score, tokens, err := p.inner.ScoreWithUsage(ctx, text)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Sentiment request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return 0, fmt.Errorf("score: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(tokens)

	// Record token usage in budget
	if p.budget != nil && tokens > 0 {
		p.budget.Record(int64(tokens))
		remaining := metrics.SentimentBudgetTokensRemaining
		remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
		remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	p.logger.Debug("Sentiment request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Float64("score", score),
		zap.Int("total_tokens", tokens),
	)

	return score, nil
}
