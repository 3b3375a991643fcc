package criteria

import (
	"fmt"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

var (
	_ ports.Criterion = (*LotSizeValue)(nil)
	_ ports.Criterion = (*BedBathValue)(nil)
	_ ports.Criterion = (*FeaturesBonus)(nil)
	_ ports.Criterion = (*PropertyAge)(nil)
)

// LotSizeValueConfig tunes the lot-to-median ratio for a perfect score.
type LotSizeValueConfig struct {
	// TargetRatio is the lot size as a multiple of the area median that
	// maps to 1.0. With the default 2.0, a lot at the median scores 0.5
	// and twice the median scores 1.0.
	TargetRatio float64 `yaml:"target_ratio" json:"target_ratio" validate:"gt=0"`
}

// DefaultLotSizeValueConfig returns the default 2x-median target.
func DefaultLotSizeValueConfig() LotSizeValueConfig {
	return LotSizeValueConfig{TargetRatio: 2.0}
}

// LotSizeValue scores lot size against the area median.
type LotSizeValue struct {
	config LotSizeValueConfig
}

// NewLotSizeValue creates the criterion with validated configuration.
func NewLotSizeValue(config LotSizeValueConfig) (*LotSizeValue, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &LotSizeValue{config: config}, nil
}

// Name implements ports.Criterion.
func (c *LotSizeValue) Name() string { return "lot_size_value" }

// Evaluate implements ports.Criterion.
func (c *LotSizeValue) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, stats domain.AreaStats) float64 {
	if l.LotSqft == nil || *l.LotSqft <= 0 {
		return Neutral
	}
	if stats.MedianLotSqft == nil || *stats.MedianLotSqft <= 0 {
		return Neutral
	}
	ratio := float64(*l.LotSqft) / *stats.MedianLotSqft
	return clamp01(ratio / c.config.TargetRatio)
}

// Validate implements ports.Criterion.
func (c *LotSizeValue) Validate() error { return validate.Struct(c.config) }

// BedBathValueConfig tunes the rooms-per-dollar ratio for a perfect
// score.
type BedBathValueConfig struct {
	// TargetRoomsPer100k is the bed+bath count per $100k of price that
	// maps to 1.0.
	TargetRoomsPer100k float64 `yaml:"target_rooms_per_100k" json:"target_rooms_per_100k" validate:"gt=0"`
}

// DefaultBedBathValueConfig returns the default target of three rooms
// per $100k.
func DefaultBedBathValueConfig() BedBathValueConfig {
	return BedBathValueConfig{TargetRoomsPer100k: 3.0}
}

// BedBathValue scores room count per dollar: more beds and baths for the
// price is better value.
type BedBathValue struct {
	config BedBathValueConfig
}

// NewBedBathValue creates the criterion with validated configuration.
func NewBedBathValue(config BedBathValueConfig) (*BedBathValue, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &BedBathValue{config: config}, nil
}

// Name implements ports.Criterion.
func (c *BedBathValue) Name() string { return "bed_bath_value" }

// Evaluate implements ports.Criterion.
func (c *BedBathValue) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, _ domain.AreaStats) float64 {
	if l.Bedrooms == nil || *l.Bedrooms <= 0 || l.Price <= 0 {
		return Neutral
	}
	rooms := float64(*l.Bedrooms)
	if l.Bathrooms != nil {
		rooms += *l.Bathrooms
	}
	roomsPer100k := rooms / (float64(l.Price) / 100_000)
	return clamp01(roomsPer100k / c.config.TargetRoomsPer100k)
}

// Validate implements ports.Criterion.
func (c *BedBathValue) Validate() error { return validate.Struct(c.config) }

// FeaturesBonusConfig names the feature checklist the bonus is computed
// over.
type FeaturesBonusConfig struct {
	// Checklist lists the features counted toward the bonus. Valid
	// entries are garage, basement, pool and fireplace.
	Checklist []string `yaml:"checklist" json:"checklist" validate:"required,min=1,dive,oneof=garage basement pool fireplace"`
}

// DefaultFeaturesBonusConfig returns the full four-item checklist.
func DefaultFeaturesBonusConfig() FeaturesBonusConfig {
	return FeaturesBonusConfig{Checklist: []string{"garage", "basement", "pool", "fireplace"}}
}

// FeaturesBonus scores the fraction of the configured feature checklist
// the listing has. A feature the provider never reported counts as
// absent.
type FeaturesBonus struct {
	config FeaturesBonusConfig
}

// NewFeaturesBonus creates the criterion with validated configuration.
func NewFeaturesBonus(config FeaturesBonusConfig) (*FeaturesBonus, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &FeaturesBonus{config: config}, nil
}

// Name implements ports.Criterion.
func (c *FeaturesBonus) Name() string { return "features_bonus" }

// Evaluate implements ports.Criterion.
func (c *FeaturesBonus) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, _ domain.AreaStats) float64 {
	present := 0
	for _, name := range c.config.Checklist {
		if has, known := l.Feature(name); known && has {
			present++
		}
	}
	return clamp01(float64(present) / float64(len(c.config.Checklist)))
}

// Validate implements ports.Criterion.
func (c *FeaturesBonus) Validate() error { return validate.Struct(c.config) }

// PropertyAgeConfig anchors age scoring to a reference year and ceiling.
type PropertyAgeConfig struct {
	// ReferenceYear is the year ages are computed against. Supplied by
	// configuration rather than the wall clock so that identical inputs
	// always score identically.
	ReferenceYear int `yaml:"reference_year" json:"reference_year" validate:"min=1900"`

	// AgeCeiling is the age in years at which the sub-score reaches 0.
	AgeCeiling float64 `yaml:"age_ceiling" json:"age_ceiling" validate:"gt=0"`
}

// DefaultPropertyAgeConfig returns a 100-year ceiling anchored at 2025.
func DefaultPropertyAgeConfig() PropertyAgeConfig {
	return PropertyAgeConfig{ReferenceYear: 2025, AgeCeiling: 100}
}

// PropertyAge scores construction year: newer builds score higher,
// reflecting lower maintenance risk, scaling linearly to 0 at the
// configured age ceiling.
type PropertyAge struct {
	config PropertyAgeConfig
}

// NewPropertyAge creates the criterion with validated configuration.
func NewPropertyAge(config PropertyAgeConfig) (*PropertyAge, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &PropertyAge{config: config}, nil
}

// Name implements ports.Criterion.
func (c *PropertyAge) Name() string { return "property_age" }

// Evaluate implements ports.Criterion.
func (c *PropertyAge) Evaluate(l domain.CanonicalListing, _ domain.Enrichment, _ domain.AreaStats) float64 {
	if l.YearBuilt == nil || *l.YearBuilt <= 0 {
		return Neutral
	}
	age := float64(c.config.ReferenceYear - *l.YearBuilt)
	if age < 0 {
		age = 0
	}
	return clamp01(1.0 - age/c.config.AgeCeiling)
}

// Validate implements ports.Criterion.
func (c *PropertyAge) Validate() error { return validate.Struct(c.config) }
