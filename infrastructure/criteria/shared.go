// Package criteria provides the deal-quality criterion implementations
// for the scoring engine. Each criterion is a pure, total function from a
// canonical listing plus enrichment and area baseline to a sub-score in
// [0,1]; a missing required input yields the neutral default rather than
// an error, so sparse data never excludes a listing from scoring.
package criteria

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Neutral is the documented sub-score substituted when a criterion's
// required input is missing. It is deliberately the midpoint so a missing
// signal neither rewards nor punishes a listing.
const Neutral = 0.5

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// clamp01 bounds a score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// overlay decodes a flexible configuration map onto a defaults struct,
// the boundary adapter used by every criterion factory.
func overlay(config map[string]any, target any) error {
	if len(config) == 0 {
		return nil
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
