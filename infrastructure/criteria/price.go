package criteria

import (
	"fmt"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

var (
	_ ports.Criterion = (*PriceVsEstimate)(nil)
	_ ports.Criterion = (*PricePerSqft)(nil)
	_ ports.Criterion = (*DaysOnMarket)(nil)
	_ ports.Criterion = (*PriceReductions)(nil)
)

// PriceVsEstimateConfig tunes how far below the automated valuation a
// price must be for a perfect sub-score.
type PriceVsEstimateConfig struct {
	// DiscountTarget is the fractional discount below the valuation that
	// maps to 1.0. With the default 0.15, parity scores 0 and a price 15%
	// or more below the estimate scores 1.0, linear in between. Prices
	// above the valuation score 0.
	DiscountTarget float64 `yaml:"discount_target" json:"discount_target" validate:"gt=0,max=1"`
}

// DefaultPriceVsEstimateConfig returns the documented default: full score
// at 15% under the valuation.
func DefaultPriceVsEstimateConfig() PriceVsEstimateConfig {
	return PriceVsEstimateConfig{DiscountTarget: 0.15}
}

// PriceVsEstimate scores the asking price against the provider's
// automated valuation. Listings without any valuation, or without a
// price, score the neutral default.
type PriceVsEstimate struct {
	config PriceVsEstimateConfig
}

// NewPriceVsEstimate creates the criterion with validated configuration.
func NewPriceVsEstimate(config PriceVsEstimateConfig) (*PriceVsEstimate, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &PriceVsEstimate{config: config}, nil
}

// Name implements ports.Criterion.
func (c *PriceVsEstimate) Name() string { return "price_vs_estimate" }

// Evaluate implements ports.Criterion.
func (c *PriceVsEstimate) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, _ domain.AreaStats) float64 {
	estimate, ok := l.Estimate()
	if !ok || l.Price <= 0 {
		return Neutral
	}
	ratio := float64(l.Price) / float64(estimate)
	return clamp01((1.0 - ratio) / c.config.DiscountTarget)
}

// Validate implements ports.Criterion.
func (c *PriceVsEstimate) Validate() error { return validate.Struct(c.config) }

// PricePerSqftConfig tunes the discount below the area median price per
// square foot that maps to a perfect sub-score.
type PricePerSqftConfig struct {
	// DiscountTarget is the fractional discount below the area median
	// that maps to 1.0. With the default 0.30, the median scores 0 and a
	// price/sqft 30% or more below it scores 1.0.
	DiscountTarget float64 `yaml:"discount_target" json:"discount_target" validate:"gt=0,max=1"`
}

// DefaultPricePerSqftConfig returns the documented default: full score at
// 30% under the area median.
func DefaultPricePerSqftConfig() PricePerSqftConfig {
	return PricePerSqftConfig{DiscountTarget: 0.30}
}

// PricePerSqft scores price per square foot against the area median.
type PricePerSqft struct {
	config PricePerSqftConfig
}

// NewPricePerSqft creates the criterion with validated configuration.
func NewPricePerSqft(config PricePerSqftConfig) (*PricePerSqft, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &PricePerSqft{config: config}, nil
}

// Name implements ports.Criterion.
func (c *PricePerSqft) Name() string { return "price_per_sqft" }

// Evaluate implements ports.Criterion.
func (c *PricePerSqft) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, stats domain.AreaStats) float64 {
	if l.Price <= 0 || l.Sqft == nil || *l.Sqft <= 0 {
		return Neutral
	}
	if stats.MedianPricePerSqft == nil || *stats.MedianPricePerSqft <= 0 {
		return Neutral
	}
	ratio := float64(l.Price) / float64(*l.Sqft) / *stats.MedianPricePerSqft
	return clamp01((1.0 - ratio) / c.config.DiscountTarget)
}

// Validate implements ports.Criterion.
func (c *PricePerSqft) Validate() error { return validate.Struct(c.config) }

// DaysOnMarketConfig tunes how listing age converts into negotiating
// leverage.
type DaysOnMarketConfig struct {
	// MedianMultiple scales the area median DOM into the full-score
	// threshold.
	MedianMultiple float64 `yaml:"median_multiple" json:"median_multiple" validate:"gt=0"`

	// FloorDays is the minimum full-score threshold regardless of how
	// fast the area moves.
	FloorDays float64 `yaml:"floor_days" json:"floor_days" validate:"gt=0"`

	// DefaultMedianDOM substitutes for areas with no DOM baseline.
	DefaultMedianDOM float64 `yaml:"default_median_dom" json:"default_median_dom" validate:"gt=0"`
}

// DefaultDaysOnMarketConfig returns the documented defaults: full score
// at three times the area median, never below 120 days.
func DefaultDaysOnMarketConfig() DaysOnMarketConfig {
	return DaysOnMarketConfig{MedianMultiple: 3, FloorDays: 120, DefaultMedianDOM: 30}
}

// DaysOnMarket scores listing age upward: the longer a listing sits past
// the area's typical pace, the more leverage a buyer has. Returns grow
// linearly and cap at the threshold, giving diminishing returns past it.
type DaysOnMarket struct {
	config DaysOnMarketConfig
}

// NewDaysOnMarket creates the criterion with validated configuration.
func NewDaysOnMarket(config DaysOnMarketConfig) (*DaysOnMarket, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &DaysOnMarket{config: config}, nil
}

// Name implements ports.Criterion.
func (c *DaysOnMarket) Name() string { return "days_on_market" }

// Evaluate implements ports.Criterion.
func (c *DaysOnMarket) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, stats domain.AreaStats) float64 {
	if l.DaysOnMarket == nil {
		return Neutral
	}
	medianDOM := c.config.DefaultMedianDOM
	if stats.MedianDOM != nil && *stats.MedianDOM > 0 {
		medianDOM = *stats.MedianDOM
	}
	threshold := medianDOM * c.config.MedianMultiple
	if threshold < c.config.FloorDays {
		threshold = c.config.FloorDays
	}
	return clamp01(float64(*l.DaysOnMarket) / threshold)
}

// Validate implements ports.Criterion.
func (c *DaysOnMarket) Validate() error { return validate.Struct(c.config) }

// PriceReductionsConfig tunes how many recorded price cuts saturate the
// sub-score.
type PriceReductionsConfig struct {
	// CapCount is the number of cuts that maps to 1.0. With the default
	// 3, a single cut scores 1/3 and three or more score 1.0.
	CapCount int `yaml:"cap_count" json:"cap_count" validate:"min=1"`
}

// DefaultPriceReductionsConfig returns the documented default cap of
// three cuts.
func DefaultPriceReductionsConfig() PriceReductionsConfig {
	return PriceReductionsConfig{CapCount: 3}
}

// PriceReductions scores the count of recorded price cuts: each cut is a
// seller-motivation signal. An unknown count scores the neutral default;
// a known count of zero scores 0.
type PriceReductions struct {
	config PriceReductionsConfig
}

// NewPriceReductions creates the criterion with validated configuration.
func NewPriceReductions(config PriceReductionsConfig) (*PriceReductions, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &PriceReductions{config: config}, nil
}

// Name implements ports.Criterion.
func (c *PriceReductions) Name() string { return "price_reductions" }

// Evaluate implements ports.Criterion.
func (c *PriceReductions) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, _ domain.AreaStats) float64 {
	count := l.PriceReductions
	if count == nil {
		// Fall back to the recorded history when the provider reports no
		// explicit count.
		if len(l.PriceHistory) == 0 {
			return Neutral
		}
		derived := countReductions(l.PriceHistory)
		count = &derived
	}
	if *count <= 0 {
		return 0
	}
	return clamp01(float64(*count) / float64(c.config.CapCount))
}

// Validate implements ports.Criterion.
func (c *PriceReductions) Validate() error { return validate.Struct(c.config) }

// countReductions counts downward price moves in a price history.
func countReductions(history []domain.PriceEvent) int {
	cuts := 0
	for i := 1; i < len(history); i++ {
		if history[i].Price < history[i-1].Price {
			cuts++
		}
	}
	return cuts
}
