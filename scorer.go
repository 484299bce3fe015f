package docsift

import "context"

// Scorer rates the emotional tone of a text on a -1..1 scale.
// Search calls it once per hit, on the snippet shown to the user.
// Implementations must be safe for concurrent use.
//
// If a Scorer also implements HealthCheck(ctx context.Context) error,
// Health will report its availability alongside the store.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}
