package criteria

import (
	"fmt"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

var (
	_ ports.Criterion = (*SchoolRating)(nil)
	_ ports.Criterion = (*WalkScore)(nil)
	_ ports.Criterion = (*FloodRisk)(nil)
	_ ports.Criterion = (*CommuteTime)(nil)
)

// SchoolRating rescales the assigned-school rating (1-10 scale) linearly
// into [0,1]. Missing enrichment scores the neutral default.
type SchoolRating struct{}

// NewSchoolRating creates the criterion.
func NewSchoolRating() *SchoolRating { return &SchoolRating{} }

// Name implements ports.Criterion.
func (c *SchoolRating) Name() string { return "school_rating" }

// Evaluate implements ports.Criterion.
func (c *SchoolRating) Evaluate(_ domain.CanonicalListing, e domain.Enrichment, _ domain.AreaStats) float64 {
	if e.SchoolRating == nil {
		return Neutral
	}
	return clamp01(*e.SchoolRating / 10.0)
}

// Validate implements ports.Criterion.
func (c *SchoolRating) Validate() error { return nil }

// WalkScore rescales the 0-100 walkability score linearly into [0,1].
type WalkScore struct{}

// NewWalkScore creates the criterion.
func NewWalkScore() *WalkScore { return &WalkScore{} }

// Name implements ports.Criterion.
func (c *WalkScore) Name() string { return "walk_score" }

// Evaluate implements ports.Criterion.
func (c *WalkScore) Evaluate(_ domain.CanonicalListing, e domain.Enrichment, _ domain.AreaStats) float64 {
	if e.WalkScore == nil {
		return Neutral
	}
	return clamp01(float64(*e.WalkScore) / 100.0)
}

// Validate implements ports.Criterion.
func (c *WalkScore) Validate() error { return nil }

// floodRatings maps the flood client's hazard buckets to sub-scores,
// inverted so lower risk scores higher.
var floodRatings = map[string]float64{
	"minimal":  1.0,
	"moderate": 0.5,
	"high":     0.1,
}

// FloodRisk scores the flood hazard bucket inverted: minimal risk is
// best. Unknown or unrecognized ratings score the neutral default.
type FloodRisk struct{}

// NewFloodRisk creates the criterion.
func NewFloodRisk() *FloodRisk { return &FloodRisk{} }

// Name implements ports.Criterion.
func (c *FloodRisk) Name() string { return "flood_risk" }

// Evaluate implements ports.Criterion.
func (c *FloodRisk) Evaluate(_ domain.CanonicalListing, e domain.Enrichment, _ domain.AreaStats) float64 {
	if score, ok := floodRatings[e.FloodRiskRating]; ok {
		return score
	}
	return Neutral
}

// Validate implements ports.Criterion.
func (c *FloodRisk) Validate() error { return nil }

// CommuteTimeConfig sets the commute band that maps onto [0,1].
type CommuteTimeConfig struct {
	// BestMinutes is the average commute at or under which the sub-score
	// is 1.0.
	BestMinutes float64 `yaml:"best_minutes" json:"best_minutes" validate:"gte=0"`

	// WorstMinutes is the average commute at or over which the sub-score
	// is 0. Must exceed BestMinutes.
	WorstMinutes float64 `yaml:"worst_minutes" json:"worst_minutes" validate:"gtefield=BestMinutes"`
}

// DefaultCommuteTimeConfig returns the documented defaults: under 20
// minutes is perfect, 60 or more scores zero.
func DefaultCommuteTimeConfig() CommuteTimeConfig {
	return CommuteTimeConfig{BestMinutes: 20, WorstMinutes: 60}
}

// CommuteTime scores the average drive time to the configured commute
// targets, inverted: shorter is better.
type CommuteTime struct {
	config CommuteTimeConfig
}

// NewCommuteTime creates the criterion with validated configuration.
func NewCommuteTime(config CommuteTimeConfig) (*CommuteTime, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if config.WorstMinutes <= config.BestMinutes {
		return nil, fmt.Errorf("worst_minutes must exceed best_minutes")
	}
	return &CommuteTime{config: config}, nil
}

// Name implements ports.Criterion.
func (c *CommuteTime) Name() string { return "commute_time" }

// Evaluate implements ports.Criterion.
func (c *CommuteTime) Evaluate(_ domain.CanonicalListing, e domain.Enrichment, _ domain.AreaStats) float64 {
	if len(e.CommuteMinutes) == 0 {
		return Neutral
	}
	var sum float64
	for _, minutes := range e.CommuteMinutes {
		sum += minutes
	}
	avg := sum / float64(len(e.CommuteMinutes))
	return clamp01((c.config.WorstMinutes - avg) / (c.config.WorstMinutes - c.config.BestMinutes))
}

// Validate implements ports.Criterion.
func (c *CommuteTime) Validate() error { return validate.Struct(c.config) }
