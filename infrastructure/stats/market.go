package stats

import (
	"sort"

	"github.com/ajmercer/go-dealscout/internal/domain"
)

// Condition classifies overall market velocity from days-on-market data.
type Condition string

// Market condition buckets, thresholded on median DOM per NAR benchmarks:
// under 14 days is very hot, 14-29 hot, 30-59 normal, 60-89 slow, 90+
// very slow.
const (
	ConditionVeryHot  Condition = "very_hot"
	ConditionHot      Condition = "hot"
	ConditionNormal   Condition = "normal"
	ConditionSlow     Condition = "slow"
	ConditionVerySlow Condition = "very_slow"
)

// Recommendation pairs a DOM filter multiplier with an absolute cap for
// one market condition.
type Recommendation struct {
	// MaxDOMMultiplier scales the area median DOM into a staleness
	// threshold.
	MaxDOMMultiplier float64 `json:"max_dom_multiplier"`

	// MaxDOMAbsolute caps the threshold in days regardless of market.
	MaxDOMAbsolute int `json:"max_dom_absolute"`
}

var recommendations = map[Condition]Recommendation{
	ConditionVeryHot:  {MaxDOMMultiplier: 3.0, MaxDOMAbsolute: 60},
	ConditionHot:      {MaxDOMMultiplier: 3.5, MaxDOMAbsolute: 120},
	ConditionNormal:   {MaxDOMMultiplier: 4.0, MaxDOMAbsolute: 180},
	ConditionSlow:     {MaxDOMMultiplier: 5.0, MaxDOMAbsolute: 270},
	ConditionVerySlow: {MaxDOMMultiplier: 6.0, MaxDOMAbsolute: 365},
}

// ZipCondition summarizes market velocity for one location group.
type ZipCondition struct {
	Condition      Condition `json:"condition"`
	MedianDOM      float64   `json:"median_dom"`
	SampleSize     int       `json:"sample_size"`
	RecommendedMax int       `json:"recommended_max_dom"`
}

// MarketReport is the full market-velocity analysis over a canonical
// listing set. It is a pure function of its inputs; no timestamps, so
// identical inputs yield identical reports.
type MarketReport struct {
	Condition Condition `json:"condition"`

	MedianDOM       float64 `json:"median_dom"`
	MeanDOM         float64 `json:"mean_dom"`
	DOM25thPct      float64 `json:"dom_25th_percentile"`
	DOM75thPct      float64 `json:"dom_75th_percentile"`
	DOM90thPct      float64 `json:"dom_90th_percentile"`
	TotalActive     int     `json:"total_active"`
	PctWithCuts     float64 `json:"pct_with_reductions"`
	AvgReductionPct float64 `json:"avg_reduction_pct"`

	Recommended Recommendation `json:"recommended"`

	// GroupConditions breaks the classification down per location group.
	GroupConditions map[string]ZipCondition `json:"group_conditions,omitempty"`
}

// AnalyzeMarket classifies market conditions from the canonical listing
// set and recommends stale-listing filter settings tuned to current
// velocity. A high price-reduction rate softens a hot classification and
// a very low rate firms up a slow one, since reductions signal seller
// flexibility independent of DOM.
func AnalyzeMarket(listings []domain.CanonicalListing, areaStats map[string]domain.AreaStats) MarketReport {
	report := MarketReport{
		Condition:   ConditionNormal,
		TotalActive: len(listings),
	}

	var doms []float64
	for _, l := range listings {
		if l.DaysOnMarket != nil {
			doms = append(doms, float64(*l.DaysOnMarket))
		}
	}

	if len(doms) == 0 {
		report.Recommended = recommendations[ConditionNormal]
		return report
	}

	sort.Float64s(doms)
	report.MedianDOM = *median(doms)
	var sum float64
	for _, v := range doms {
		sum += v
	}
	report.MeanDOM = sum / float64(len(doms))
	report.DOM25thPct = percentile(doms, 25)
	report.DOM75thPct = percentile(doms, 75)
	report.DOM90thPct = percentile(doms, 90)

	report.Condition = classify(report.MedianDOM)

	// Price reduction rate: listings whose recorded history shows the
	// current price below the original list price.
	withCuts := 0
	var cutPcts []float64
	for _, l := range listings {
		if len(l.PriceHistory) < 2 {
			continue
		}
		original := l.PriceHistory[0].Price
		if original > 0 && l.Price < original {
			withCuts++
			cutPcts = append(cutPcts, float64(original-l.Price)/float64(original)*100)
		}
	}
	if len(listings) > 0 {
		report.PctWithCuts = float64(withCuts) / float64(len(listings)) * 100
	}
	if len(cutPcts) > 0 {
		var s float64
		for _, v := range cutPcts {
			s += v
		}
		report.AvgReductionPct = s / float64(len(cutPcts))
	}

	adjusted := report.Condition
	switch {
	case report.PctWithCuts > 30 && (report.Condition == ConditionVeryHot || report.Condition == ConditionHot):
		// Many reductions despite fast DOM: market is cooling.
		adjusted = ConditionNormal
	case report.PctWithCuts < 10 && (report.Condition == ConditionSlow || report.Condition == ConditionVerySlow):
		// Few reductions despite high DOM: sellers are firm.
		adjusted = ConditionNormal
	}
	report.Recommended = recommendations[adjusted]

	report.GroupConditions = make(map[string]ZipCondition)
	for key, st := range areaStats {
		if key == GlobalKey || st.MedianDOM == nil {
			continue
		}
		cond := classify(*st.MedianDOM)
		report.GroupConditions[key] = ZipCondition{
			Condition:      cond,
			MedianDOM:      *st.MedianDOM,
			SampleSize:     st.SampleSize,
			RecommendedMax: recommendations[cond].MaxDOMAbsolute,
		}
	}

	return report
}

// FilterStale removes listings whose days-on-market exceeds the
// market-speed-adjusted threshold: area median DOM times the recommended
// multiplier, capped at the absolute maximum. Listings without DOM data
// are kept.
func FilterStale(listings []domain.CanonicalListing, areaStats map[string]domain.AreaStats, groupBy string, rec Recommendation) []domain.CanonicalListing {
	kept := make([]domain.CanonicalListing, 0, len(listings))
	for _, l := range listings {
		if l.DaysOnMarket == nil {
			kept = append(kept, l)
			continue
		}
		threshold := float64(rec.MaxDOMAbsolute)
		st := Lookup(areaStats, l, groupBy)
		if st.MedianDOM != nil {
			if scaled := *st.MedianDOM * rec.MaxDOMMultiplier; scaled < threshold {
				threshold = scaled
			}
		}
		if float64(*l.DaysOnMarket) <= threshold {
			kept = append(kept, l)
		}
	}
	return kept
}

func classify(medianDOM float64) Condition {
	switch {
	case medianDOM < 14:
		return ConditionVeryHot
	case medianDOM < 30:
		return ConditionHot
	case medianDOM < 60:
		return ConditionNormal
	case medianDOM < 90:
		return ConditionSlow
	default:
		return ConditionVerySlow
	}
}

// percentile computes the linearly interpolated percentile of sorted data.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	k := float64(len(sorted)-1) * pct / 100
	f := int(k)
	c := f + 1
	if c >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[f] + (k-float64(f))*(sorted[c]-sorted[f])
}
