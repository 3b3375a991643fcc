package application

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ajmercer/go-dealscout/infrastructure/match"
	"github.com/ajmercer/go-dealscout/infrastructure/stats"
	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

// Engine is the top-level pipeline: raw listings in, deduplicated and
// scored canonical listings out. All configuration is resolved and
// validated at construction, so a batch never fails partway through on a
// bad weight or an unknown criterion name.
//
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	config  Config
	dedup   *match.Deduplicator
	calc    *stats.Calculator
	metrics ports.MetricsCollector
	tracer  trace.Tracer

	// criteria is sorted by name so composite accumulation and therefore
	// floating-point rounding is identical across runs.
	criteria []ports.Criterion

	// weights is the normalized weight per criterion name, summing to 1.
	weights map[string]float64
}

// NewEngine constructs an engine from the configuration, instantiating
// every weighted criterion through the registry. A nil registry uses the
// built-in criteria; a nil collector disables metrics.
func NewEngine(config Config, registry *CriterionRegistry, metrics ports.MetricsCollector) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = NewCriterionRegistry()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}

	dedup, err := match.NewDeduplicator(config.Dedup, metrics)
	if err != nil {
		return nil, fmt.Errorf("deduplicator: %w", err)
	}
	calc, err := stats.NewCalculator(config.Stats, metrics)
	if err != nil {
		return nil, fmt.Errorf("area stats: %w", err)
	}

	weights, err := normalizeWeights(config.Scoring.Weights)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	criteria := make([]ports.Criterion, 0, len(names))
	supported := make(map[string]struct{}, len(registry.SupportedNames()))
	for _, n := range registry.SupportedNames() {
		supported[n] = struct{}{}
	}
	for _, name := range names {
		if _, ok := supported[name]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCriterion, name)
		}
		criterion, err := registry.Create(name, config.Scoring.Criteria[name])
		if err != nil {
			return nil, err
		}
		if err := criterion.Validate(); err != nil {
			return nil, fmt.Errorf("criterion %s: %w", name, err)
		}
		criteria = append(criteria, criterion)
	}

	return &Engine{
		config:   config,
		dedup:    dedup,
		calc:     calc,
		metrics:  metrics,
		tracer:   otel.Tracer("engine"),
		criteria: criteria,
		weights:  weights,
	}, nil
}

// normalizeWeights divides each weight by the sum so the normalized
// weights total 1. A non-positive sum is a configuration error.
func normalizeWeights(weights map[string]float64) (map[string]float64, error) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: criterion weights must sum to a positive value", domain.ErrInvalidConfiguration)
	}
	normalized := make(map[string]float64, len(weights))
	for name, w := range weights {
		normalized[name] = w / sum
	}
	return normalized, nil
}

// Deduplicate resolves raw listings across sources into canonical
// listings. Output order is deterministic and independent of input
// order.
func (e *Engine) Deduplicate(ctx context.Context, listings []domain.RawListing) ([]domain.CanonicalListing, error) {
	return e.dedup.Deduplicate(ctx, listings)
}

// Score evaluates every canonical listing against the weighted criteria
// and returns them sorted by composite score descending, ties broken by
// canonical ID. Enrichment is keyed by canonical listing ID; listings
// without an entry score their enrichment criteria at the neutral
// default.
//
// Area statistics are computed once for the whole set before any listing
// is scored, then listings are scored in parallel. Scoring itself is
// pure, so the parallelism cannot affect the result.
func (e *Engine) Score(ctx context.Context, listings []domain.CanonicalListing, enrichment map[string]domain.Enrichment) ([]domain.ScoredListing, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.Score",
		trace.WithAttributes(attribute.Int("score.listings", len(listings))),
	)
	defer span.End()
	start := time.Now()

	areaStats := e.calc.Compute(ctx, listings)

	scored := make([]domain.ScoredListing, len(listings))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, listing := range listings {
		g.Go(func() error {
			st := stats.Lookup(areaStats, listing, e.calc.GroupBy())
			scored[i] = domain.ScoredListing{
				Listing:   listing,
				Breakdown: e.scoreOne(listing, enrichment[listing.ID], st),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Breakdown.Composite != scored[j].Breakdown.Composite {
			return scored[i].Breakdown.Composite > scored[j].Breakdown.Composite
		}
		return scored[i].Listing.ID < scored[j].Listing.ID
	})

	e.metrics.RecordLatency("score", time.Since(start), nil)
	e.metrics.RecordCounter("listings_scored", float64(len(scored)), nil)
	for _, s := range scored {
		e.metrics.RecordCounter("tier_"+string(s.Breakdown.Tier), 1, nil)
		e.metrics.RecordHistogram("composite", float64(s.Breakdown.Composite), nil)
	}
	return scored, nil
}

// scoreOne evaluates every criterion for a single listing and assembles
// the breakdown. Criteria are iterated in sorted name order so the
// weighted sum accumulates identically across runs.
func (e *Engine) scoreOne(listing domain.CanonicalListing, enrich domain.Enrichment, st domain.AreaStats) domain.ScoreBreakdown {
	subs := make(map[string]float64, len(e.criteria))
	var weighted float64
	for _, criterion := range e.criteria {
		name := criterion.Name()
		score := criterion.Evaluate(listing, enrich, st)
		subs[name] = score
		weighted += score * e.weights[name]
	}

	composite := int(math.Round(weighted * 100))
	return domain.ScoreBreakdown{
		Criteria:  subs,
		Composite: composite,
		Tier: domain.TierFor(composite,
			float64(e.config.Scoring.GoodFloor),
			float64(e.config.Scoring.GreatFloor)),
	}
}

// Run is the full pipeline: deduplicate then score.
func (e *Engine) Run(ctx context.Context, listings []domain.RawListing, enrichment map[string]domain.Enrichment) ([]domain.ScoredListing, error) {
	canonical, err := e.Deduplicate(ctx, listings)
	if err != nil {
		return nil, err
	}
	return e.Score(ctx, canonical, enrichment)
}
