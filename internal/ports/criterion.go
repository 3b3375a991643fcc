// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"github.com/ajmercer/go-dealscout/internal/domain"
)

// Criterion is one independent deal-quality signal. Implementations must
// be pure and total: Evaluate always returns a value in [0,1] and
// substitutes a documented neutral default when a required input is
// missing, so a sparse listing is never excluded from scoring.
// Criteria are stateless and safe for concurrent use.
type Criterion interface {
	// Name returns the unique configuration name of this criterion,
	// e.g. "price_vs_estimate". Weights are keyed by this name.
	Name() string

	// Evaluate scores the listing against its enrichment data and the
	// area baseline. The result is always in [0,1]; implementations clamp
	// before returning.
	Evaluate(listing domain.CanonicalListing, enrichment domain.Enrichment, stats domain.AreaStats) float64

	// Validate checks the criterion's configuration and returns nil if it
	// is ready for evaluation.
	Validate() error
}

// CriterionFactory creates a criterion instance from a flexible
// configuration map. Factories are registered in the criterion registry
// under the criterion name.
type CriterionFactory func(config map[string]any) (Criterion, error)

// Matcher decides whether two raw listings plausibly denote the same
// physical property. Implementations must be symmetric: Match(a, b) and
// Match(b, a) always agree.
type Matcher interface {
	// Match returns true when the two listings should be clustered.
	Match(a, b domain.RawListing) bool
}
