package match

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

var _ ports.Matcher = (*GeoMatcher)(nil)

// earthRadiusMeters is the mean Earth radius used by the haversine
// distance calculation.
const earthRadiusMeters = 6_371_000.0

// GeoMatcherConfig defines the thresholds for the same-property decision.
// All fields are validated during matcher creation.
type GeoMatcherConfig struct {
	// DistanceMeters is the maximum haversine distance between two
	// listings' coordinates for them to be considered co-located.
	// The comparison is inclusive.
	DistanceMeters float64 `yaml:"distance_meters" json:"distance_meters" validate:"min=0"`

	// PriceTolerance is the maximum relative price difference,
	// computed as |p1-p2| / max(p1,p2). The comparison is inclusive.
	PriceTolerance float64 `yaml:"price_tolerance" json:"price_tolerance" validate:"min=0,max=1"`

	// RequireStreetAffinity additionally vetoes geo matches whose
	// normalized street names are dissimilar. Off by default; enabling it
	// can only remove matches, never add them.
	RequireStreetAffinity bool `yaml:"require_street_affinity" json:"require_street_affinity"`

	// StreetSimilarityFloor is the minimum Levenshtein similarity between
	// the two normalized street parts when RequireStreetAffinity is set.
	StreetSimilarityFloor float64 `yaml:"street_similarity_floor" json:"street_similarity_floor" validate:"min=0,max=1"`
}

// DefaultGeoMatcherConfig returns a GeoMatcherConfig with the documented
// defaults: ~11 meter co-location radius and 5% price tolerance.
func DefaultGeoMatcherConfig() GeoMatcherConfig {
	return GeoMatcherConfig{
		DistanceMeters:        11.0,
		PriceTolerance:        0.05,
		RequireStreetAffinity: false,
		StreetSimilarityFloor: 0.5,
	}
}

// GeoMatcher decides whether two raw listings plausibly refer to the same
// property. The decision rule, in priority order:
//
//  1. Equal normalized address keys match unconditionally.
//  2. Otherwise, both listings must have coordinates within
//     DistanceMeters, prices within PriceTolerance, and equal bed and
//     bath counts (absent on both sides also passes).
//  3. Anything else is no match.
//
// Missing data fails closed: one-sided missing coordinates skip rule 2
// entirely, and a one-sided missing price fails the price condition, to
// avoid false merges.
//
// The matcher is stateless and safe for concurrent use.
type GeoMatcher struct {
	config GeoMatcherConfig
}

// NewGeoMatcher creates a GeoMatcher with the given thresholds.
// Returns an error if configuration validation fails.
func NewGeoMatcher(config GeoMatcherConfig) (*GeoMatcher, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &GeoMatcher{config: config}, nil
}

// Match implements ports.Matcher. It normalizes both addresses itself;
// the deduplicator precomputes keys and uses MatchWithKeys instead to
// avoid re-normalizing inside the O(n²) pair loop.
func (gm *GeoMatcher) Match(a, b domain.RawListing) bool {
	keyA := NormalizeAddress(a.Address, a.City, a.State, a.Zip)
	keyB := NormalizeAddress(b.Address, b.City, b.State, b.Zip)
	return gm.MatchWithKeys(a, b, keyA, keyB)
}

// MatchWithKeys applies the full decision rule using precomputed
// normalized address keys.
func (gm *GeoMatcher) MatchWithKeys(a, b domain.RawListing, keyA, keyB string) bool {
	if keyA != "" && keyA == keyB {
		return true
	}
	return gm.MatchGeo(a, b, keyA, keyB)
}

// MatchGeo applies rule 2 only: co-location plus price and room-count
// agreement. The address keys are needed only when street affinity is
// enabled.
func (gm *GeoMatcher) MatchGeo(a, b domain.RawListing, keyA, keyB string) bool {
	if a.Latitude == nil || a.Longitude == nil || b.Latitude == nil || b.Longitude == nil {
		return false
	}
	dist := Haversine(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
	if dist > gm.config.DistanceMeters {
		return false
	}
	if !gm.priceSimilar(a.Price, b.Price) {
		return false
	}
	if !intPtrEqual(a.Bedrooms, b.Bedrooms) {
		return false
	}
	if !floatPtrEqual(a.Bathrooms, b.Bathrooms) {
		return false
	}
	if gm.config.RequireStreetAffinity {
		if streetSimilarity(StreetPart(keyA), StreetPart(keyB)) < gm.config.StreetSimilarityFloor {
			return false
		}
	}
	return true
}

// priceSimilar reports whether two prices are within the configured
// relative tolerance. A missing price on exactly one side fails closed;
// missing on both sides satisfies the condition.
func (gm *GeoMatcher) priceSimilar(p1, p2 int64) bool {
	if p1 <= 0 && p2 <= 0 {
		return true
	}
	if p1 <= 0 || p2 <= 0 {
		return false
	}
	maxP := p1
	if p2 > maxP {
		maxP = p2
	}
	diff := math.Abs(float64(p1 - p2))
	return diff/float64(maxP) <= gm.config.PriceTolerance
}

// Haversine returns the great-circle distance in meters between two
// WGS84 coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180.0
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// streetSimilarity computes normalized Levenshtein similarity between two
// street strings, 1.0 for identical and 0.0 for maximally dissimilar.
func streetSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(s1, s2)
	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	sim := 1.0 - float64(distance)/float64(maxLen)
	if sim < 0 {
		sim = 0
	}
	return sim
}

func intPtrEqual(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
