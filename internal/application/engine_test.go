package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

// namedCriterion is a fixed-score criterion for exercising the weighting
// math without any listing data.
type namedCriterion struct {
	name  string
	score float64
}

func (c namedCriterion) Name() string { return c.name }

func (c namedCriterion) Evaluate(domain.CanonicalListing, domain.Enrichment, domain.AreaStats) float64 {
	return c.score
}

func (c namedCriterion) Validate() error { return nil }

// stubRegistry builds a registry holding only fixed-score criteria.
func stubRegistry(t *testing.T, scores map[string]float64) *CriterionRegistry {
	t.Helper()
	registry := NewCriterionRegistry()
	for name, score := range scores {
		name, score := name, score
		require.NoError(t, registry.RegisterFactory(name, func(map[string]any) (ports.Criterion, error) {
			return namedCriterion{name: name, score: score}, nil
		}))
	}
	return registry
}

// stubConfig returns a config whose scoring section references only the
// given weights.
func stubConfig(weights map[string]float64) Config {
	config := DefaultConfig()
	config.Scoring.Weights = weights
	return config
}

func TestNewEngine_Defaults(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestNewEngine_UnknownCriterion(t *testing.T) {
	config := stubConfig(map[string]float64{"curb_appeal": 1})

	_, err := NewEngine(config, nil, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownCriterion)
}

func TestNewEngine_ZeroWeightSum(t *testing.T) {
	config := stubConfig(map[string]float64{"walk_score": 0, "hoa_cost": 0})

	_, err := NewEngine(config, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestEngine_Score_WeightedComposite(t *testing.T) {
	registry := stubRegistry(t, map[string]float64{"high": 1.0, "low": 0.2})
	config := stubConfig(map[string]float64{"high": 3, "low": 1})

	engine, err := NewEngine(config, registry, nil)
	require.NoError(t, err)

	scored, err := engine.Score(context.Background(),
		[]domain.CanonicalListing{{ID: "l1", Zip: "19103"}}, nil)
	require.NoError(t, err)
	require.Len(t, scored, 1)

	// 0.75 x 1.0 + 0.25 x 0.2 = 0.8.
	got := scored[0].Breakdown
	assert.Equal(t, 80, got.Composite)
	assert.Equal(t, domain.TierGreat, got.Tier)
	assert.InDelta(t, 1.0, got.Criteria["high"], 1e-9)
	assert.InDelta(t, 0.2, got.Criteria["low"], 1e-9)
}

func TestEngine_Score_WeightScaleInvariance(t *testing.T) {
	scores := map[string]float64{"high": 0.9, "low": 0.1}
	listing := []domain.CanonicalListing{{ID: "l1", Zip: "19103"}}
	ctx := context.Background()

	small, err := NewEngine(stubConfig(map[string]float64{"high": 2, "low": 1}), stubRegistry(t, scores), nil)
	require.NoError(t, err)
	big, err := NewEngine(stubConfig(map[string]float64{"high": 200, "low": 100}), stubRegistry(t, scores), nil)
	require.NoError(t, err)

	fromSmall, err := small.Score(ctx, listing, nil)
	require.NoError(t, err)
	fromBig, err := big.Score(ctx, listing, nil)
	require.NoError(t, err)

	assert.Equal(t, fromSmall[0].Breakdown.Composite, fromBig[0].Breakdown.Composite,
		"only weight ratios may matter")
}

func TestEngine_Score_SparseListingIsNeutral(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), nil, nil)
	require.NoError(t, err)

	scored, err := engine.Score(context.Background(),
		[]domain.CanonicalListing{{ID: "bare", Zip: "19103"}}, nil)
	require.NoError(t, err)
	require.Len(t, scored, 1)

	// Twelve criteria sit at the neutral 0.5; the missing HOA counts as
	// fee-free (1.0, weight 0.05) and the feature checklist scores 0
	// (weight 0.05), which cancel exactly.
	got := scored[0].Breakdown
	assert.Len(t, got.Criteria, 14, "breakdowns are always complete")
	assert.Equal(t, 50, got.Composite)
	assert.Equal(t, domain.TierGood, got.Tier)
}

func TestEngine_Score_Ordering(t *testing.T) {
	registry := stubRegistry(t, map[string]float64{"fixed": 0.6})
	config := stubConfig(map[string]float64{"fixed": 1})

	engine, err := NewEngine(config, registry, nil)
	require.NoError(t, err)

	// Everything scores 60, so ordering falls through to the ID
	// tiebreaker.
	listings := []domain.CanonicalListing{
		{ID: "charlie", Zip: "19103"},
		{ID: "alpha", Zip: "19103"},
		{ID: "bravo", Zip: "19103"},
	}

	scored, err := engine.Score(context.Background(), listings, nil)
	require.NoError(t, err)
	require.Len(t, scored, 3)
	assert.Equal(t, "alpha", scored[0].Listing.ID)
	assert.Equal(t, "bravo", scored[1].Listing.ID)
	assert.Equal(t, "charlie", scored[2].Listing.ID)
}

func TestEngine_Score_EnrichmentKeyedByID(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), nil, nil)
	require.NoError(t, err)

	walkable := 90
	listings := []domain.CanonicalListing{
		{ID: "with-data", Zip: "19103"},
		{ID: "without-data", Zip: "19103"},
	}
	enrichment := map[string]domain.Enrichment{
		"with-data": {WalkScore: &walkable},
	}

	scored, err := engine.Score(context.Background(), listings, enrichment)
	require.NoError(t, err)
	require.Len(t, scored, 2)

	byID := map[string]domain.ScoreBreakdown{}
	for _, s := range scored {
		byID[s.Listing.ID] = s.Breakdown
	}
	assert.InDelta(t, 0.9, byID["with-data"].Criteria["walk_score"], 1e-9)
	assert.InDelta(t, 0.5, byID["without-data"].Criteria["walk_score"], 1e-9)
}

func TestEngine_Score_Deterministic(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), nil, nil)
	require.NoError(t, err)

	sqft := 1800
	estimate := int64(500_000)
	listings := []domain.CanonicalListing{
		{ID: "a", Zip: "19103", Price: 425_000, Sqft: &sqft, RedfinEstimate: &estimate},
		{ID: "b", Zip: "19103", Price: 480_000, Sqft: &sqft},
		{ID: "c", Zip: "19104", Price: 310_000},
	}

	ctx := context.Background()
	first, err := engine.Score(ctx, listings, nil)
	require.NoError(t, err)
	second, err := engine.Score(ctx, listings, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Run_EndToEnd(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), nil, nil)
	require.NoError(t, err)

	estimate := int64(500_000)
	raw := []domain.RawListing{
		{
			Source: domain.SourceRedfin, SourceID: "r1",
			Address: "123 Main Street", City: "Springfield", State: "IL", Zip: "62704",
			Price:          425_000,
			RedfinEstimate: &estimate,
		},
		{
			Source: domain.SourceZillow, SourceID: "z1",
			Address: "123 Main St", City: "Springfield", State: "IL", Zip: "62704",
			Price: 430_000,
		},
		{
			Source: domain.SourceRealtor, SourceID: "m1",
			Address: "999 Other Rd", City: "Springfield", State: "IL", Zip: "62704",
			Price: 310_000,
		},
	}

	scored, err := engine.Run(context.Background(), raw, nil)
	require.NoError(t, err)
	require.Len(t, scored, 2, "the duplicate pair collapses to one listing")

	for _, s := range scored {
		assert.Len(t, s.Breakdown.Criteria, 14)
		assert.GreaterOrEqual(t, s.Breakdown.Composite, 0)
		assert.LessOrEqual(t, s.Breakdown.Composite, 100)
	}
}
