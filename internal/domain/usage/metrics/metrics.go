package metrics

// Metrics holds sentiment API usage for a time period.
type Metrics struct {
	scoringRequests int
	tokens          int
}

// New creates a Metrics snapshot.
func New(requests, tokens int) Metrics {
	return Metrics{scoringRequests: requests, tokens: tokens}
}

// ScoringRequests returns the number of sentiment API calls.
func (m Metrics) ScoringRequests() int { return m.scoringRequests }

// Tokens returns the total tokens consumed.
func (m Metrics) Tokens() int { return m.tokens }
