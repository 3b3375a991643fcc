package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajmercer/go-dealscout/internal/domain"
)

func iptr(v int) *int         { return &v }
func i64ptr(v int64) *int64   { return &v }
func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

func TestClamp01(t *testing.T) {
	assert.InDelta(t, 0.0, clamp01(-0.5), 1e-9)
	assert.InDelta(t, 0.0, clamp01(0), 1e-9)
	assert.InDelta(t, 0.3, clamp01(0.3), 1e-9)
	assert.InDelta(t, 1.0, clamp01(1), 1e-9)
	assert.InDelta(t, 1.0, clamp01(7.2), 1e-9)
}

func TestOverlay(t *testing.T) {
	cfg := DefaultPriceVsEstimateConfig()
	err := overlay(map[string]any{"discount_target": 0.25}, &cfg)
	assert.NoError(t, err)
	assert.InDelta(t, 0.25, cfg.DiscountTarget, 1e-9)

	// Nil and empty maps leave the defaults untouched.
	cfg = DefaultPriceVsEstimateConfig()
	assert.NoError(t, overlay(nil, &cfg))
	assert.InDelta(t, 0.15, cfg.DiscountTarget, 1e-9)
}

// evaluate runs a criterion against bare inputs, the common case in the
// neutral-default tests below.
func evaluate(c interface {
	Evaluate(domain.CanonicalListing, domain.Enrichment, domain.AreaStats) float64
}, l domain.CanonicalListing) float64 {
	return c.Evaluate(l, domain.Enrichment{}, domain.AreaStats{})
}
