// Package stats derives per-location-group baselines from the canonical
// listing set: medians for scoring normalization, market-condition
// classification, and the stale-listing filter built on top of them.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Config defines how canonical listings are grouped and when a group is
// too small to trust.
type Config struct {
	// GroupBy selects the location-group key: "zip", "city" or "county".
	GroupBy string `yaml:"group_by" json:"group_by" validate:"required,oneof=zip city county"`

	// MinSamples is the minimum group size for per-group medians. Smaller
	// groups substitute the global baseline rather than an unstable
	// per-group median.
	MinSamples int `yaml:"min_samples" json:"min_samples" validate:"min=1"`
}

// DefaultConfig returns the default grouping: per-zip with a minimum of
// five samples.
func DefaultConfig() Config {
	return Config{GroupBy: "zip", MinSamples: 5}
}

// Calculator computes AreaStats for every location group present in a
// canonical listing set. Stats are always recomputed wholesale, never
// patched incrementally, and always from the deduplicated set so that
// duplicate rows cannot inflate medians.
type Calculator struct {
	config  Config
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// NewCalculator creates a Calculator from the given configuration.
// Passing a nil collector disables metrics.
func NewCalculator(config Config, metrics ports.MetricsCollector) (*Calculator, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Calculator{
		config:  config,
		metrics: metrics,
		tracer:  otel.Tracer("area-stats"),
	}, nil
}

// GroupBy returns the configured grouping mode.
func (c *Calculator) GroupBy() string { return c.config.GroupBy }

// Compute returns the mapping from location-group key to AreaStats. The
// key "" holds the global baseline computed across every listing; groups
// below MinSamples carry the global medians with Fallback set, surfaced
// as a condition for the caller, not an error.
func (c *Calculator) Compute(ctx context.Context, listings []domain.CanonicalListing) map[string]domain.AreaStats {
	_, span := c.tracer.Start(ctx, "Calculator.Compute",
		trace.WithAttributes(
			attribute.String("stats.group_by", c.config.GroupBy),
			attribute.Int("stats.listings", len(listings)),
		),
	)
	defer span.End()
	start := time.Now()

	groups := make(map[string][]domain.CanonicalListing)
	for _, l := range listings {
		key := l.GroupKey(c.config.GroupBy)
		groups[key] = append(groups[key], l)
	}

	global := c.compute("", listings)
	out := make(map[string]domain.AreaStats, len(groups)+1)
	out[GlobalKey] = global

	fallbacks := 0
	for key, members := range groups {
		if len(members) < c.config.MinSamples {
			st := global
			st.GroupKey = key
			st.SampleSize = len(members)
			st.Fallback = true
			out[key] = st
			fallbacks++
			continue
		}
		out[key] = c.compute(key, members)
	}

	span.SetAttributes(
		attribute.Int("stats.groups", len(groups)),
		attribute.Int("stats.fallback_groups", fallbacks),
	)
	c.metrics.RecordLatency("area_stats", time.Since(start), nil)
	c.metrics.RecordCounter("area_group_fallbacks", float64(fallbacks), nil)
	return out
}

// GlobalKey indexes the global baseline in the map returned by Compute.
const GlobalKey = ""

// Lookup returns the stats for a listing's group, falling back to the
// global baseline when the group is absent.
func Lookup(stats map[string]domain.AreaStats, listing domain.CanonicalListing, groupBy string) domain.AreaStats {
	if st, ok := stats[listing.GroupKey(groupBy)]; ok {
		return st
	}
	return stats[GlobalKey]
}

func (c *Calculator) compute(key string, members []domain.CanonicalListing) domain.AreaStats {
	var prices, ppsf, lots, doms []float64
	for _, l := range members {
		if l.Price > 0 {
			prices = append(prices, float64(l.Price))
			if l.Sqft != nil && *l.Sqft > 0 {
				ppsf = append(ppsf, float64(l.Price)/float64(*l.Sqft))
			}
		}
		if l.LotSqft != nil && *l.LotSqft > 0 {
			lots = append(lots, float64(*l.LotSqft))
		}
		if l.DaysOnMarket != nil {
			doms = append(doms, float64(*l.DaysOnMarket))
		}
	}
	return domain.AreaStats{
		GroupKey:           key,
		MedianPrice:        median(prices),
		MedianPricePerSqft: median(ppsf),
		MedianLotSqft:      median(lots),
		MedianDOM:          median(doms),
		SampleSize:         len(members),
	}
}

// median returns the statistical median of the values, or nil when the
// slice is empty. The input is copied before sorting.
func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var m float64
	n := len(sorted)
	if n%2 == 1 {
		m = sorted[n/2]
	} else {
		m = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return &m
}
