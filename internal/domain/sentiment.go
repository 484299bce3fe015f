package domain

import "context"

// SentimentScorer is the shared polarity scoring contract between layers.
// Score returns a compound polarity in [-1, 1] for a short text.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// HealthChecker verifies sentiment provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
