package domain

// Tier buckets a composite score into a coarse deal classification.
type Tier string

// Deal tiers. Thresholds are configuration; the defaults classify
// composites below 50 as below_average, 50-69 as good, and 70+ as great.
const (
	TierBelowAverage Tier = "below_average"
	TierGood         Tier = "good"
	TierGreat        Tier = "great"
)

// ScoreBreakdown is the full scoring result for one canonical listing:
// every criterion's sub-score, the weighted composite, and the tier. A
// breakdown is only ever emitted complete; a listing either has all
// criterion entries or is absent from scored output.
type ScoreBreakdown struct {
	// Criteria maps criterion name to its sub-score in [0,1].
	Criteria map[string]float64 `json:"criteria"`

	// Composite is the weighted 0-100 aggregate, rounded to an integer.
	Composite int `json:"composite"`

	// Tier classifies the composite against the configured thresholds.
	Tier Tier `json:"tier"`
}

// TierFor classifies a composite score against the given thresholds.
// Threshold comparisons are inclusive: a composite exactly at greatFloor
// is great, exactly at goodFloor is good.
func TierFor(composite int, goodFloor, greatFloor float64) Tier {
	switch {
	case float64(composite) >= greatFloor:
		return TierGreat
	case float64(composite) >= goodFloor:
		return TierGood
	default:
		return TierBelowAverage
	}
}
