package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

func TestNewCriterionRegistry_Builtins(t *testing.T) {
	registry := NewCriterionRegistry()

	want := []string{
		"bed_bath_value", "commute_time", "days_on_market", "features_bonus",
		"flood_risk", "hoa_cost", "lot_size_value", "price_per_sqft",
		"price_reductions", "price_vs_estimate", "property_age",
		"school_rating", "tax_rate", "walk_score",
	}
	assert.Equal(t, want, registry.SupportedNames())
}

func TestCriterionRegistry_Create(t *testing.T) {
	registry := NewCriterionRegistry()

	t.Run("builtin with defaults", func(t *testing.T) {
		criterion, err := registry.Create("hoa_cost", nil)
		require.NoError(t, err)
		assert.Equal(t, "hoa_cost", criterion.Name())
	})

	t.Run("builtin with overrides", func(t *testing.T) {
		criterion, err := registry.Create("price_vs_estimate", map[string]any{"discount_target": 0.2})
		require.NoError(t, err)
		assert.NoError(t, criterion.Validate())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := registry.Create("curb_appeal", nil)
		assert.ErrorContains(t, err, "unsupported criterion")
	})

	t.Run("invalid configuration propagates", func(t *testing.T) {
		_, err := registry.Create("hoa_cost", map[string]any{"ceiling_monthly": -1.0})
		assert.ErrorContains(t, err, "hoa_cost")
	})
}

type stubCriterion struct{ score float64 }

func (s stubCriterion) Name() string { return "stub" }

func (s stubCriterion) Evaluate(domain.CanonicalListing, domain.Enrichment, domain.AreaStats) float64 {
	return s.score
}

func (s stubCriterion) Validate() error { return nil }

func TestCriterionRegistry_RegisterFactory(t *testing.T) {
	registry := NewCriterionRegistry()

	err := registry.RegisterFactory("stub", func(map[string]any) (ports.Criterion, error) {
		return stubCriterion{score: 0.9}, nil
	})
	require.NoError(t, err)

	criterion, err := registry.Create("stub", nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.9,
		criterion.Evaluate(domain.CanonicalListing{}, domain.Enrichment{}, domain.AreaStats{}), 1e-9)
	assert.Contains(t, registry.SupportedNames(), "stub")
}

func TestCriterionRegistry_RegisterFactory_Invalid(t *testing.T) {
	registry := NewCriterionRegistry()

	err := registry.RegisterFactory("", func(map[string]any) (ports.Criterion, error) {
		return stubCriterion{}, nil
	})
	assert.ErrorIs(t, err, ports.ErrEmptyCriterionName)

	err = registry.RegisterFactory("nil-factory", nil)
	assert.Error(t, err)
}
