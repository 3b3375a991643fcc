package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmercer/go-dealscout/internal/domain"
)

func TestSchoolRating(t *testing.T) {
	c := NewSchoolRating()
	assert.Equal(t, "school_rating", c.Name())
	assert.NoError(t, c.Validate())

	tests := []struct {
		name       string
		enrichment domain.Enrichment
		want       float64
	}{
		{name: "top rated school", enrichment: domain.Enrichment{SchoolRating: fptr(10)}, want: 1.0},
		{name: "average school", enrichment: domain.Enrichment{SchoolRating: fptr(5)}, want: 0.5},
		{name: "lowest rating", enrichment: domain.Enrichment{SchoolRating: fptr(1)}, want: 0.1},
		{name: "unknown rating is neutral", enrichment: domain.Enrichment{}, want: Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Evaluate(domain.CanonicalListing{}, tt.enrichment, domain.AreaStats{})
			assert.InDelta(t, tt.want, got, 1e-4)
		})
	}
}

func TestWalkScore(t *testing.T) {
	c := NewWalkScore()
	assert.Equal(t, "walk_score", c.Name())

	tests := []struct {
		name       string
		enrichment domain.Enrichment
		want       float64
	}{
		{name: "walker's paradise", enrichment: domain.Enrichment{WalkScore: iptr(100)}, want: 1.0},
		{name: "somewhat walkable", enrichment: domain.Enrichment{WalkScore: iptr(55)}, want: 0.55},
		{name: "car dependent", enrichment: domain.Enrichment{WalkScore: iptr(0)}, want: 0.0},
		{name: "unknown is neutral", enrichment: domain.Enrichment{}, want: Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Evaluate(domain.CanonicalListing{}, tt.enrichment, domain.AreaStats{})
			assert.InDelta(t, tt.want, got, 1e-4)
		})
	}
}

func TestFloodRisk(t *testing.T) {
	c := NewFloodRisk()
	assert.Equal(t, "flood_risk", c.Name())

	tests := []struct {
		name   string
		rating string
		want   float64
	}{
		{name: "minimal risk is best", rating: "minimal", want: 1.0},
		{name: "moderate risk", rating: "moderate", want: 0.5},
		{name: "high risk", rating: "high", want: 0.1},
		{name: "unknown rating is neutral", rating: "", want: Neutral},
		{name: "unrecognized bucket is neutral", rating: "catastrophic", want: Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Evaluate(domain.CanonicalListing{}, domain.Enrichment{FloodRiskRating: tt.rating}, domain.AreaStats{})
			assert.InDelta(t, tt.want, got, 1e-4)
		})
	}
}

func TestCommuteTime(t *testing.T) {
	c, err := NewCommuteTime(DefaultCommuteTimeConfig())
	require.NoError(t, err)
	assert.Equal(t, "commute_time", c.Name())

	tests := []struct {
		name       string
		enrichment domain.Enrichment
		want       float64
	}{
		{
			name:       "under the best band is perfect",
			enrichment: domain.Enrichment{CommuteMinutes: map[string]float64{"office": 10}},
			want:       1.0,
		},
		{
			name:       "at the best edge is perfect",
			enrichment: domain.Enrichment{CommuteMinutes: map[string]float64{"office": 20}},
			want:       1.0,
		},
		{
			name:       "midway through the band",
			enrichment: domain.Enrichment{CommuteMinutes: map[string]float64{"office": 40}},
			want:       0.5,
		},
		{
			name: "average across multiple destinations",
			enrichment: domain.Enrichment{CommuteMinutes: map[string]float64{
				"office": 30, "school": 50,
			}},
			want: 0.5,
		},
		{
			name:       "at or past the worst edge scores zero",
			enrichment: domain.Enrichment{CommuteMinutes: map[string]float64{"office": 75}},
			want:       0.0,
		},
		{
			name:       "no commute targets is neutral",
			enrichment: domain.Enrichment{},
			want:       Neutral,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Evaluate(domain.CanonicalListing{}, tt.enrichment, domain.AreaStats{})
			assert.InDelta(t, tt.want, got, 1e-4)
		})
	}
}

func TestNewCommuteTime_InvalidBand(t *testing.T) {
	_, err := NewCommuteTime(CommuteTimeConfig{BestMinutes: 30, WorstMinutes: 30})
	assert.Error(t, err)

	_, err = NewCommuteTime(CommuteTimeConfig{BestMinutes: -5, WorstMinutes: 60})
	assert.Error(t, err)
}
