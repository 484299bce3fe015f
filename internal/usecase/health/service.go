package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; core flows still work.
	Degraded Status = "degraded"
	// Down indicates the document store is unreachable.
	Down Status = "down"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	sentiment SentimentChecker
}

// New creates a Service. sentiment can be nil when the provider has no
// remote dependency to check.
func New(store StorePinger, sentiment SentimentChecker) *Service {
	return &Service{store: store, sentiment: sentiment}
}

// Check runs health checks against all components. A store failure takes
// the whole service down; a sentiment provider failure only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		status = Down
	} else {
		checks["store"] = CheckOK
	}

	if s.sentiment != nil {
		if err := s.sentiment.HealthCheck(ctx); err != nil {
			checks["sentiment"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["sentiment"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
