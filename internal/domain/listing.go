// Package domain contains pure, dependency-free domain models and types
// for the deal analysis engine.
package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Source identifies the listing provider a record was fetched from.
type Source string

// Known listing providers. The merge rules treat provider-specific fields
// (automated valuations) as valid only when they originate from their own
// provider.
const (
	SourceRedfin  Source = "redfin"
	SourceRealtor Source = "realtor"
	SourceZillow  Source = "zillow"
)

// PropertyType classifies the physical property category of a listing.
type PropertyType string

// Supported property types.
const (
	PropertySingleFamily PropertyType = "single_family"
	PropertyCondo        PropertyType = "condo"
	PropertyTownhouse    PropertyType = "townhouse"
	PropertyMultiFamily  PropertyType = "multi_family"
	PropertyLand         PropertyType = "land"
)

// PriceEvent records one entry of a listing's price history as reported
// by its provider. Dates are ISO-8601 strings; the engine never parses
// them, it only compares history lengths during merge.
type PriceEvent struct {
	// Date is the event date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Price is the asking price in whole dollars at the time of the event.
	Price int64 `json:"price"`

	// Event describes the change, e.g. "Listed", "Price Change", "Pending".
	Event string `json:"event"`
}

// RawListing is one provider's view of a property. It is immutable once
// fetched; the deduplication pass reads it but never modifies it.
//
// Optional fields use pointer types so that "absent" is distinguishable
// from a legitimate zero. Criterion functions substitute a neutral score
// when a required field is nil.
type RawListing struct {
	// Source identifies the provider this record came from.
	Source Source `json:"source"`

	// SourceID is the provider's own identifier for the listing.
	SourceID string `json:"source_id"`

	// SourceURL is the provider's canonical page for the listing.
	SourceURL string `json:"source_url,omitempty"`

	// Address is the free-text street address as scraped.
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	County  string `json:"county,omitempty"`

	// Latitude and Longitude are WGS84 coordinates when the provider
	// supplies them.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Price is the current asking price in whole dollars.
	Price int64 `json:"price"`

	PropertyType PropertyType `json:"property_type,omitempty"`
	Bedrooms     *int         `json:"bedrooms,omitempty"`
	Bathrooms    *float64     `json:"bathrooms,omitempty"`
	Sqft         *int         `json:"sqft,omitempty"`
	LotSqft      *int         `json:"lot_sqft,omitempty"`
	YearBuilt    *int         `json:"year_built,omitempty"`
	Stories      *int         `json:"stories,omitempty"`

	HasGarage    *bool `json:"has_garage,omitempty"`
	GarageSpaces *int  `json:"garage_spaces,omitempty"`
	HasBasement  *bool `json:"has_basement,omitempty"`
	HasPool      *bool `json:"has_pool,omitempty"`
	HasFireplace *bool `json:"has_fireplace,omitempty"`

	// HOAMonthly is the monthly HOA fee in dollars. A nil value means the
	// provider reported no fee at all, which scoring treats as fee-free.
	HOAMonthly *float64 `json:"hoa_monthly,omitempty"`

	// AnnualTax is the yearly property tax bill in dollars.
	AnnualTax *float64 `json:"annual_tax,omitempty"`

	// TaxRate is the effective tax rate as a fraction of price, when the
	// provider reports it directly instead of (or alongside) AnnualTax.
	TaxRate *float64 `json:"tax_rate,omitempty"`

	// ListDate is the date the listing went active, YYYY-MM-DD.
	ListDate string `json:"list_date,omitempty"`

	// DaysOnMarket is the provider-reported days the listing has been
	// active.
	DaysOnMarket *int `json:"days_on_market,omitempty"`

	Status string `json:"status,omitempty"`

	// PriceHistory holds the provider's recorded price events, oldest
	// first. Merge keeps the longest history across sources.
	PriceHistory []PriceEvent `json:"price_history,omitempty"`

	// PriceReductions is the count of recorded price cuts.
	PriceReductions *int `json:"price_reductions,omitempty"`

	// PhotoURLs lists photo references. Merge keeps the de-duplicated
	// union across sources.
	PhotoURLs []string `json:"photo_urls,omitempty"`

	// RedfinEstimate is Redfin's automated valuation. Only honored when
	// Source is redfin.
	RedfinEstimate *int64 `json:"redfin_estimate,omitempty"`

	// Zestimate is Zillow's automated valuation. Only honored when Source
	// is zillow.
	Zestimate *int64 `json:"zestimate,omitempty"`
}

// Key returns the source-qualified identity of a raw listing, unique
// across providers. It is the unit of cluster membership.
func (l RawListing) Key() string {
	return string(l.Source) + ":" + l.SourceID
}

// ListingRef is a provenance pointer from a canonical listing back to one
// of its contributing raw listings.
type ListingRef struct {
	Source    Source `json:"source"`
	SourceID  string `json:"source_id"`
	SourceURL string `json:"source_url,omitempty"`
}

// canonicalNamespace seeds deterministic canonical listing IDs. UUIDv5
// over the sorted member keys makes re-runs produce identical IDs for
// identical cluster membership.
var canonicalNamespace = uuid.MustParse("8f3c1f6e-9a54-4f2b-8a14-2d7c6b1e0c14")

// CanonicalListing is the single merged record representing one property,
// produced from a cluster of raw listings. Mutated only during merge;
// callers must treat it as immutable afterward.
type CanonicalListing struct {
	// ID is a deterministic UUIDv5 derived from cluster membership.
	ID string `json:"id"`

	// NormalizedAddress is the canonical address key of the merged record.
	NormalizedAddress string `json:"normalized_address"`

	// Sources lists the distinct providers that contributed, sorted.
	Sources []Source `json:"sources"`

	// SourceURLs maps each contributing provider to its listing page.
	SourceURLs map[Source]string `json:"source_urls,omitempty"`

	// ContributingListings references every raw listing in the cluster,
	// ordered by the configured source priority for auditability.
	ContributingListings []ListingRef `json:"contributing_listings"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	County  string `json:"county,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Price int64 `json:"price"`

	PropertyType PropertyType `json:"property_type,omitempty"`
	Bedrooms     *int         `json:"bedrooms,omitempty"`
	Bathrooms    *float64     `json:"bathrooms,omitempty"`
	Sqft         *int         `json:"sqft,omitempty"`
	LotSqft      *int         `json:"lot_sqft,omitempty"`
	YearBuilt    *int         `json:"year_built,omitempty"`
	Stories      *int         `json:"stories,omitempty"`

	HasGarage    *bool `json:"has_garage,omitempty"`
	GarageSpaces *int  `json:"garage_spaces,omitempty"`
	HasBasement  *bool `json:"has_basement,omitempty"`
	HasPool      *bool `json:"has_pool,omitempty"`
	HasFireplace *bool `json:"has_fireplace,omitempty"`

	HOAMonthly *float64 `json:"hoa_monthly,omitempty"`
	AnnualTax  *float64 `json:"annual_tax,omitempty"`
	TaxRate    *float64 `json:"tax_rate,omitempty"`

	ListDate     string `json:"list_date,omitempty"`
	DaysOnMarket *int   `json:"days_on_market,omitempty"`
	Status       string `json:"status,omitempty"`

	PriceHistory    []PriceEvent `json:"price_history,omitempty"`
	PriceReductions *int         `json:"price_reductions,omitempty"`
	PhotoURLs       []string     `json:"photo_urls,omitempty"`

	RedfinEstimate *int64 `json:"redfin_estimate,omitempty"`
	Zestimate      *int64 `json:"zestimate,omitempty"`
}

// Estimate returns the best available automated valuation, preferring the
// Redfin estimate over the Zestimate, and false when neither is present.
func (c CanonicalListing) Estimate() (int64, bool) {
	if c.RedfinEstimate != nil && *c.RedfinEstimate > 0 {
		return *c.RedfinEstimate, true
	}
	if c.Zestimate != nil && *c.Zestimate > 0 {
		return *c.Zestimate, true
	}
	return 0, false
}

// Feature reports whether a named checklist feature is present. The
// second return is false when the provider never reported the flag.
func (c CanonicalListing) Feature(name string) (present, known bool) {
	var flag *bool
	switch name {
	case "garage":
		flag = c.HasGarage
	case "basement":
		flag = c.HasBasement
	case "pool":
		flag = c.HasPool
	case "fireplace":
		flag = c.HasFireplace
	default:
		return false, false
	}
	if flag == nil {
		return false, false
	}
	return *flag, true
}

// GroupKey returns the location-group key for area statistics under the
// given grouping mode ("zip", "city", or "county"). Missing components
// fall back to the zip so a listing always lands in some group.
func (c CanonicalListing) GroupKey(groupBy string) string {
	switch groupBy {
	case "city":
		if c.City != "" {
			return strings.ToLower(c.City) + "," + strings.ToUpper(c.State)
		}
	case "county":
		if c.County != "" {
			return strings.ToLower(c.County) + "," + strings.ToUpper(c.State)
		}
	}
	return c.Zip
}

// CanonicalID derives the deterministic identifier for a cluster from its
// member keys. Membership order does not matter; the keys are sorted
// before hashing.
func CanonicalID(memberKeys []string) string {
	keys := make([]string, len(memberKeys))
	copy(keys, memberKeys)
	sort.Strings(keys)
	return uuid.NewSHA1(canonicalNamespace, []byte(strings.Join(keys, "|"))).String()
}

// ScoredListing pairs a canonical listing with its full score breakdown.
// It is the terminal output of the engine.
type ScoredListing struct {
	Listing   CanonicalListing `json:"listing"`
	Breakdown ScoreBreakdown   `json:"breakdown"`
}
