// Package application wires the deduplication, statistics and scoring
// components into the engine's two entry points and owns configuration
// loading and validation.
package application

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ajmercer/go-dealscout/infrastructure/criteria"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

// CriterionRegistry is a factory for criterion instances keyed by
// criterion name. It comes pre-loaded with the fourteen built-in
// criteria and supports registering custom ones at runtime.
type CriterionRegistry struct {
	// factories maps criterion names to their factory functions.
	factories map[string]ports.CriterionFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewCriterionRegistry creates a registry with the standard criteria
// pre-registered.
func NewCriterionRegistry() *CriterionRegistry {
	r := &CriterionRegistry{factories: make(map[string]ports.CriterionFactory)}
	r.registerBuiltinFactories()
	return r
}

// registerBuiltinFactories registers the fourteen standard deal-quality
// criteria.
func (r *CriterionRegistry) registerBuiltinFactories() {
	r.factories["price_vs_estimate"] = criteria.CreatePriceVsEstimate
	r.factories["price_per_sqft"] = criteria.CreatePricePerSqft
	r.factories["days_on_market"] = criteria.CreateDaysOnMarket
	r.factories["price_reductions"] = criteria.CreatePriceReductions
	r.factories["hoa_cost"] = criteria.CreateHOACost
	r.factories["tax_rate"] = criteria.CreateTaxRate
	r.factories["school_rating"] = criteria.CreateSchoolRating
	r.factories["walk_score"] = criteria.CreateWalkScore
	r.factories["flood_risk"] = criteria.CreateFloodRisk
	r.factories["commute_time"] = criteria.CreateCommuteTime
	r.factories["lot_size_value"] = criteria.CreateLotSizeValue
	r.factories["bed_bath_value"] = criteria.CreateBedBathValue
	r.factories["features_bonus"] = criteria.CreateFeaturesBonus
	r.factories["property_age"] = criteria.CreatePropertyAge
}

// Create instantiates the named criterion with the given configuration.
// An unknown name is a configuration error; callers fail fast before any
// listing is processed.
func (r *CriterionRegistry) Create(name string, config map[string]any) (ports.Criterion, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported criterion: %s", name)
	}
	if config == nil {
		config = make(map[string]any)
	}

	criterion, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create criterion %s: %w", name, err)
	}
	return criterion, nil
}

// RegisterFactory registers a factory for a custom criterion name,
// extending the registry at runtime.
func (r *CriterionRegistry) RegisterFactory(name string, factory ports.CriterionFactory) error {
	if name == "" {
		return ports.ErrEmptyCriterionName
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	return nil
}

// SupportedNames returns the sorted list of registered criterion names.
func (r *CriterionRegistry) SupportedNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
