package application

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ajmercer/go-dealscout/infrastructure/match"
	"github.com/ajmercer/go-dealscout/infrastructure/stats"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// ScoringConfig drives the weighted composite score.
type ScoringConfig struct {
	// Weights maps criterion names to their relative weights. Weights are
	// normalized by their sum before use, so only the ratios matter. Every
	// named criterion must exist in the registry.
	Weights map[string]float64 `yaml:"weights" json:"weights" validate:"required,min=1"`

	// Criteria holds per-criterion parameter overrides, keyed by criterion
	// name. Unset criteria use their built-in defaults.
	Criteria map[string]map[string]any `yaml:"criteria" json:"criteria"`

	// GoodFloor is the lowest composite score (0-100) classified "good".
	GoodFloor int `yaml:"good_floor" json:"good_floor" validate:"min=0,max=100"`

	// GreatFloor is the lowest composite score classified "great". Must be
	// at least GoodFloor.
	GreatFloor int `yaml:"great_floor" json:"great_floor" validate:"min=0,max=100,gtefield=GoodFloor"`
}

// DefaultScoringConfig returns the standard weight profile across the
// fourteen built-in criteria and the 50/70 tier floors.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: map[string]float64{
			"price_vs_estimate": 0.20,
			"price_per_sqft":    0.12,
			"days_on_market":    0.08,
			"price_reductions":  0.08,
			"lot_size_value":    0.05,
			"hoa_cost":          0.05,
			"tax_rate":          0.04,
			"school_rating":     0.07,
			"walk_score":        0.05,
			"flood_risk":        0.06,
			"commute_time":      0.06,
			"property_age":      0.04,
			"bed_bath_value":    0.05,
			"features_bonus":    0.05,
		},
		GoodFloor:  50,
		GreatFloor: 70,
	}
}

// Config is the root configuration for an engine: deduplication,
// area-statistics and scoring sections.
type Config struct {
	Dedup   match.Config  `yaml:"dedup" json:"dedup"`
	Stats   stats.Config  `yaml:"stats" json:"stats"`
	Scoring ScoringConfig `yaml:"scoring" json:"scoring"`
}

// DefaultConfig returns a fully populated configuration with every
// section at its documented defaults.
func DefaultConfig() Config {
	return Config{
		Dedup:   match.DefaultConfig(),
		Stats:   stats.DefaultConfig(),
		Scoring: DefaultScoringConfig(),
	}
}

// Validate checks the configuration's structural constraints. Weight
// values themselves are checked by the engine, which also resolves
// criterion names against the registry.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	for name, weight := range c.Scoring.Weights {
		if weight < 0 {
			return fmt.Errorf("weight for criterion %s must be non-negative, got %v", name, weight)
		}
	}
	return nil
}

// LoadConfig reads a YAML configuration file, overlaying it onto the
// defaults. A weights section in the file replaces the default profile
// wholesale rather than merging into it. Unknown fields are rejected so
// typos surface as load errors rather than silently ignored settings.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	// YAML decoding merges mappings into pre-populated maps, which would
	// silently mix user weights with the defaults. Probe for the section
	// first and clear the default profile when the file supplies its own.
	var probe struct {
		Scoring struct {
			Weights map[string]float64 `yaml:"weights"`
		} `yaml:"scoring"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config := DefaultConfig()
	if probe.Scoring.Weights != nil {
		config.Scoring.Weights = nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
