package match

import (
	"fmt"
	"sort"

	"github.com/ajmercer/go-dealscout/internal/domain"
)

// Merger reduces a listing cluster to one canonical listing. For
// provider-specific fields (the automated valuations) only the owning
// provider's value is ever taken; every other field takes the first
// non-null value when iterating contributors in the configured source
// priority order, with "most complete wins" for the address string. The
// merge is deterministic: identical membership and priority configuration
// always yield an identical canonical listing.
type Merger struct {
	priority map[domain.Source]int
	order    []domain.Source
}

// NewMerger creates a Merger with the given source priority order,
// highest priority first. Every known provider must appear exactly once.
func NewMerger(priority []domain.Source) (*Merger, error) {
	if len(priority) == 0 {
		return nil, fmt.Errorf("%w: empty priority order", ErrUnknownSource)
	}
	idx := make(map[domain.Source]int, len(priority))
	for i, s := range priority {
		switch s {
		case domain.SourceRedfin, domain.SourceRealtor, domain.SourceZillow:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, s)
		}
		if _, dup := idx[s]; dup {
			return nil, fmt.Errorf("duplicate source %q in priority order", s)
		}
		idx[s] = i
	}
	return &Merger{priority: idx, order: priority}, nil
}

// Merge produces the canonical listing for one cluster.
func (m *Merger) Merge(cluster domain.ListingCluster) domain.CanonicalListing {
	members := m.orderMembers(cluster.Members)
	base := members[0]

	out := domain.CanonicalListing{
		ID:      domain.CanonicalID(cluster.MemberKeys()),
		Address: base.Address,
		City:    base.City,
		State:   base.State,
		Zip:     base.Zip,
		County:  base.County,
		Price:   base.Price,
		Status:  base.Status,
	}

	sourceSet := make(map[domain.Source]struct{}, len(members))
	sourceURLs := make(map[domain.Source]string, len(members))
	photoSeen := make(map[string]struct{})

	for _, l := range members {
		sourceSet[l.Source] = struct{}{}
		if l.SourceURL != "" {
			if _, ok := sourceURLs[l.Source]; !ok {
				sourceURLs[l.Source] = l.SourceURL
			}
		}
		out.ContributingListings = append(out.ContributingListings, domain.ListingRef{
			Source:    l.Source,
			SourceID:  l.SourceID,
			SourceURL: l.SourceURL,
		})

		// Most complete address string wins; ties keep the higher
		// priority source because iteration follows priority order.
		if len(l.Address) > len(out.Address) {
			out.Address = l.Address
			out.City = l.City
			out.State = l.State
			out.Zip = l.Zip
		}
		if out.County == "" && l.County != "" {
			out.County = l.County
		}
		if out.Price <= 0 && l.Price > 0 {
			out.Price = l.Price
		}
		if out.Status == "" && l.Status != "" {
			out.Status = l.Status
		}
		if out.ListDate == "" && l.ListDate != "" {
			out.ListDate = l.ListDate
		}
		if out.PropertyType == "" && l.PropertyType != "" {
			out.PropertyType = l.PropertyType
		}

		if out.Latitude == nil && l.Latitude != nil && l.Longitude != nil {
			out.Latitude = l.Latitude
			out.Longitude = l.Longitude
		}

		out.Bedrooms = firstInt(out.Bedrooms, l.Bedrooms)
		out.Bathrooms = firstFloat(out.Bathrooms, l.Bathrooms)
		out.Sqft = firstInt(out.Sqft, l.Sqft)
		out.LotSqft = firstInt(out.LotSqft, l.LotSqft)
		out.YearBuilt = firstInt(out.YearBuilt, l.YearBuilt)
		out.Stories = firstInt(out.Stories, l.Stories)
		out.GarageSpaces = firstInt(out.GarageSpaces, l.GarageSpaces)
		out.HasGarage = firstBool(out.HasGarage, l.HasGarage)
		out.HasBasement = firstBool(out.HasBasement, l.HasBasement)
		out.HasPool = firstBool(out.HasPool, l.HasPool)
		out.HasFireplace = firstBool(out.HasFireplace, l.HasFireplace)
		out.HOAMonthly = firstFloat(out.HOAMonthly, l.HOAMonthly)
		out.AnnualTax = firstFloat(out.AnnualTax, l.AnnualTax)
		out.TaxRate = firstFloat(out.TaxRate, l.TaxRate)
		out.DaysOnMarket = firstInt(out.DaysOnMarket, l.DaysOnMarket)
		out.PriceReductions = firstInt(out.PriceReductions, l.PriceReductions)

		// Automated valuations only ever come from their own provider.
		if l.Source == domain.SourceRedfin && out.RedfinEstimate == nil && l.RedfinEstimate != nil {
			out.RedfinEstimate = l.RedfinEstimate
		}
		if l.Source == domain.SourceZillow && out.Zestimate == nil && l.Zestimate != nil {
			out.Zestimate = l.Zestimate
		}

		// Longest price history wins.
		if len(l.PriceHistory) > len(out.PriceHistory) {
			out.PriceHistory = l.PriceHistory
		}

		// Photos: de-duplicated union across sources.
		for _, u := range l.PhotoURLs {
			if _, seen := photoSeen[u]; seen {
				continue
			}
			photoSeen[u] = struct{}{}
			out.PhotoURLs = append(out.PhotoURLs, u)
		}
	}

	out.Sources = make([]domain.Source, 0, len(sourceSet))
	for s := range sourceSet {
		out.Sources = append(out.Sources, s)
	}
	sort.Slice(out.Sources, func(i, j int) bool { return out.Sources[i] < out.Sources[j] })
	if len(sourceURLs) > 0 {
		out.SourceURLs = sourceURLs
	}

	out.NormalizedAddress = NormalizeAddress(out.Address, out.City, out.State, out.Zip)
	return out
}

// orderMembers returns the cluster members sorted by source priority,
// then by listing key for a stable order within one provider.
func (m *Merger) orderMembers(members []domain.RawListing) []domain.RawListing {
	ordered := make([]domain.RawListing, len(members))
	copy(ordered, members)
	sort.Slice(ordered, func(i, j int) bool {
		pi, pj := m.rank(ordered[i].Source), m.rank(ordered[j].Source)
		if pi != pj {
			return pi < pj
		}
		return ordered[i].Key() < ordered[j].Key()
	})
	return ordered
}

// rank maps a source to its priority index; unknown sources sort last.
func (m *Merger) rank(s domain.Source) int {
	if i, ok := m.priority[s]; ok {
		return i
	}
	return len(m.order)
}

func firstInt(cur, next *int) *int {
	if cur != nil {
		return cur
	}
	return next
}

func firstFloat(cur, next *float64) *float64 {
	if cur != nil {
		return cur
	}
	return next
}

func firstBool(cur, next *bool) *bool {
	if cur != nil {
		return cur
	}
	return next
}
