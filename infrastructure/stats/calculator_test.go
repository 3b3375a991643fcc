package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmercer/go-dealscout/internal/domain"
)

func iptr(v int) *int { return &v }

// zipListing builds a minimal canonical listing in a zip with the given
// price and square footage.
func zipListing(id, zip string, price int64, sqft int) domain.CanonicalListing {
	l := domain.CanonicalListing{ID: id, Zip: zip, Price: price}
	if sqft > 0 {
		l.Sqft = iptr(sqft)
	}
	return l
}

func TestNewCalculator_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "unknown group mode", config: Config{GroupBy: "street", MinSamples: 5}},
		{name: "zero min samples", config: Config{GroupBy: "zip", MinSamples: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCalculator(tt.config, nil)
			assert.Error(t, err)
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{name: "empty", values: nil, want: nil},
		{name: "single", values: []float64{5}, want: fp(5)},
		{name: "odd count", values: []float64{3, 1, 2}, want: fp(2)},
		{name: "even count averages the middle pair", values: []float64{4, 1, 3, 2}, want: fp(2.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := median(tt.values)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func fp(v float64) *float64 { return &v }

func TestCalculator_Compute(t *testing.T) {
	calc, err := NewCalculator(Config{GroupBy: "zip", MinSamples: 3}, nil)
	require.NoError(t, err)

	listings := []domain.CanonicalListing{
		zipListing("a", "19103", 400_000, 2000),
		zipListing("b", "19103", 500_000, 2000),
		zipListing("c", "19103", 600_000, 2000),
		zipListing("d", "19104", 300_000, 1500),
	}

	out := calc.Compute(context.Background(), listings)

	t.Run("global baseline", func(t *testing.T) {
		global, ok := out[GlobalKey]
		require.True(t, ok)
		assert.Equal(t, 4, global.SampleSize)
		require.NotNil(t, global.MedianPrice)
		assert.InDelta(t, 450_000, *global.MedianPrice, 1e-9)
		assert.False(t, global.Fallback)
	})

	t.Run("large group gets its own medians", func(t *testing.T) {
		st, ok := out["19103"]
		require.True(t, ok)
		assert.Equal(t, 3, st.SampleSize)
		assert.False(t, st.Fallback)
		require.NotNil(t, st.MedianPrice)
		assert.InDelta(t, 500_000, *st.MedianPrice, 1e-9)
		require.NotNil(t, st.MedianPricePerSqft)
		assert.InDelta(t, 250, *st.MedianPricePerSqft, 1e-9)
	})

	t.Run("small group falls back to global", func(t *testing.T) {
		st, ok := out["19104"]
		require.True(t, ok)
		assert.True(t, st.Fallback)
		assert.Equal(t, 1, st.SampleSize, "fallback keeps the true group size")
		require.NotNil(t, st.MedianPrice)
		assert.InDelta(t, 450_000, *st.MedianPrice, 1e-9, "fallback carries the global median")
		assert.Equal(t, "19104", st.GroupKey)
	})
}

func TestCalculator_Compute_SkipsMissingFields(t *testing.T) {
	calc, err := NewCalculator(Config{GroupBy: "zip", MinSamples: 1}, nil)
	require.NoError(t, err)

	listings := []domain.CanonicalListing{
		{ID: "a", Zip: "19103", Price: 400_000},
		{ID: "b", Zip: "19103"},
	}

	out := calc.Compute(context.Background(), listings)
	st := out["19103"]

	require.NotNil(t, st.MedianPrice, "one listing with a price is enough")
	assert.InDelta(t, 400_000, *st.MedianPrice, 1e-9)
	assert.Nil(t, st.MedianPricePerSqft, "no listing had square footage")
	assert.Nil(t, st.MedianDOM)
	assert.Equal(t, 2, st.SampleSize)
}

func TestLookup(t *testing.T) {
	global := domain.AreaStats{GroupKey: GlobalKey, SampleSize: 10}
	known := domain.AreaStats{GroupKey: "19103", SampleSize: 5}
	statsByGroup := map[string]domain.AreaStats{
		GlobalKey: global,
		"19103":   known,
	}

	inGroup := domain.CanonicalListing{Zip: "19103"}
	assert.Equal(t, known, Lookup(statsByGroup, inGroup, "zip"))

	stranger := domain.CanonicalListing{Zip: "99999"}
	assert.Equal(t, global, Lookup(statsByGroup, stranger, "zip"))
}
