package criteria

import (
	"fmt"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

var (
	_ ports.Criterion = (*HOACost)(nil)
	_ ports.Criterion = (*TaxRate)(nil)
)

// HOACostConfig sets the monthly fee that zeroes the sub-score.
type HOACostConfig struct {
	// CeilingMonthly is the monthly HOA fee in dollars at which the
	// sub-score reaches 0. A fee of zero scores 1.0, linear in between.
	CeilingMonthly float64 `yaml:"ceiling_monthly" json:"ceiling_monthly" validate:"gt=0"`
}

// DefaultHOACostConfig returns the default $500/month ceiling.
func DefaultHOACostConfig() HOACostConfig {
	return HOACostConfig{CeilingMonthly: 500}
}

// HOACost scores the monthly HOA fee inverted: no fee is best. A listing
// that reports no fee at all is treated as fee-free rather than unknown,
// matching provider behavior where the field is simply omitted for
// non-HOA properties.
type HOACost struct {
	config HOACostConfig
}

// NewHOACost creates the criterion with validated configuration.
func NewHOACost(config HOACostConfig) (*HOACost, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &HOACost{config: config}, nil
}

// Name implements ports.Criterion.
func (c *HOACost) Name() string { return "hoa_cost" }

// Evaluate implements ports.Criterion.
func (c *HOACost) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, _ domain.AreaStats) float64 {
	if l.HOAMonthly == nil || *l.HOAMonthly <= 0 {
		return 1.0
	}
	return clamp01(1.0 - *l.HOAMonthly/c.config.CeilingMonthly)
}

// Validate implements ports.Criterion.
func (c *HOACost) Validate() error { return validate.Struct(c.config) }

// TaxRateConfig sets the effective tax rate that zeroes the sub-score.
type TaxRateConfig struct {
	// CeilingRate is the effective annual tax rate (fraction of price) at
	// which the sub-score reaches 0. A rate of zero scores 1.0.
	CeilingRate float64 `yaml:"ceiling_rate" json:"ceiling_rate" validate:"gt=0,max=1"`
}

// DefaultTaxRateConfig returns the default 4% ceiling.
func DefaultTaxRateConfig() TaxRateConfig {
	return TaxRateConfig{CeilingRate: 0.04}
}

// TaxRate scores the effective property tax rate inverted: lower is
// better. The rate comes from the provider's reported rate when present,
// otherwise from annual tax divided by price. With neither available the
// sub-score is neutral.
type TaxRate struct {
	config TaxRateConfig
}

// NewTaxRate creates the criterion with validated configuration.
func NewTaxRate(config TaxRateConfig) (*TaxRate, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &TaxRate{config: config}, nil
}

// Name implements ports.Criterion.
func (c *TaxRate) Name() string { return "tax_rate" }

// Evaluate implements ports.Criterion.
func (c *TaxRate) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, _ domain.AreaStats) float64 {
	var rate float64
	switch {
	case l.TaxRate != nil && *l.TaxRate >= 0:
		rate = *l.TaxRate
	case l.AnnualTax != nil && *l.AnnualTax > 0 && l.Price > 0:
		rate = *l.AnnualTax / float64(l.Price)
	default:
		return Neutral
	}
	return clamp01(1.0 - rate/c.config.CeilingRate)
}

// Validate implements ports.Criterion.
func (c *TaxRate) Validate() error { return validate.Struct(c.config) }
