package domain

import (
	"sort"
	"strings"
)

// ListingCluster is a set of raw listings believed to denote one physical
// property, built by transitive closure of the pairwise match relation.
// Every raw listing belongs to exactly one cluster; a listing that matches
// nothing forms a singleton.
type ListingCluster struct {
	// Members holds the contributing raw listings, sorted by Key for
	// deterministic iteration.
	Members []RawListing `json:"members"`
}

// NewListingCluster builds a cluster from its members, normalizing member
// order so that identical membership always produces an identical cluster
// regardless of input ordering.
func NewListingCluster(members []RawListing) ListingCluster {
	sorted := make([]RawListing, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key() < sorted[j].Key() })
	return ListingCluster{Members: sorted}
}

// Key returns the cluster identity: the sorted union of member
// source-qualified keys.
func (c ListingCluster) Key() string {
	keys := c.MemberKeys()
	return strings.Join(keys, "|")
}

// MemberKeys returns the sorted source-qualified keys of all members.
func (c ListingCluster) MemberKeys() []string {
	keys := make([]string, len(c.Members))
	for i, m := range c.Members {
		keys[i] = m.Key()
	}
	sort.Strings(keys)
	return keys
}

// Size returns the number of member listings.
func (c ListingCluster) Size() int { return len(c.Members) }
