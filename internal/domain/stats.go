package domain

// AreaStats holds the per-location-group baselines used for scoring
// normalization and stale-listing filtering. Instances are always computed
// from the canonical (deduplicated) listing set and replaced wholesale on
// each run, never patched in place.
type AreaStats struct {
	// GroupKey identifies the location group (zip, city or county,
	// depending on configuration).
	GroupKey string `json:"group_key"`

	// MedianPrice is the median asking price across the group, in dollars.
	MedianPrice *float64 `json:"median_price,omitempty"`

	// MedianPricePerSqft is the median of price divided by square footage,
	// computed over listings with a positive area only.
	MedianPricePerSqft *float64 `json:"median_price_per_sqft,omitempty"`

	// MedianLotSqft is the median lot size in square feet.
	MedianLotSqft *float64 `json:"median_lot_sqft,omitempty"`

	// MedianDOM is the median days-on-market.
	MedianDOM *float64 `json:"median_dom,omitempty"`

	// SampleSize is the number of canonical listings the medians were
	// computed from.
	SampleSize int `json:"sample_size"`

	// Fallback is true when the group had fewer than the configured
	// minimum samples and the global baseline was substituted. Surfaced to
	// callers as a condition, not an error.
	Fallback bool `json:"fallback,omitempty"`
}

// Enrichment carries the optional per-listing fields produced by external
// enrichment clients (walkability, flood hazard, schools, commute). A
// missing Enrichment, or any missing field inside one, only makes the
// corresponding criterion uninformative; it never excludes a listing.
type Enrichment struct {
	WalkScore    *int `json:"walk_score,omitempty"`
	TransitScore *int `json:"transit_score,omitempty"`
	BikeScore    *int `json:"bike_score,omitempty"`

	// FloodRiskRating is the hazard bucket reported by the flood client:
	// "minimal", "moderate" or "high". Empty means unknown.
	FloodRiskRating string `json:"flood_risk_rating,omitempty"`

	// SchoolRating is the assigned-school rating on a 1-10 scale.
	SchoolRating *float64 `json:"school_rating,omitempty"`

	// CommuteMinutes maps each configured commute target name to the
	// drive time in minutes.
	CommuteMinutes map[string]float64 `json:"commute_minutes,omitempty"`
}
