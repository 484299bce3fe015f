package domain

import "context"

type scoringUsageKey struct{}

// ScoringUsage collects sentiment provider token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the budget layer adds tokens after each provider call; the handler reads the
// total for response headers.
type ScoringUsage struct {
	TotalTokens int
	Used        bool // true if a provider call happened, even a 0-token one
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *ScoringUsage) {
	u := &ScoringUsage{}
	return context.WithValue(ctx, scoringUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *ScoringUsage {
	u, _ := ctx.Value(scoringUsageKey{}).(*ScoringUsage)
	return u
}

// AddTokens records consumed tokens.
func (u *ScoringUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Used = true
	}
}
