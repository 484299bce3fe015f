package health

import "context"

// StorePinger checks document store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// SentimentChecker checks sentiment provider availability.
type SentimentChecker interface {
	HealthCheck(ctx context.Context) error
}
