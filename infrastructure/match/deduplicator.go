package match

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajmercer/go-dealscout/internal/domain"
	"github.com/ajmercer/go-dealscout/internal/ports"
)

// Config defines the configuration for a deduplication pass.
type Config struct {
	// Matcher holds the same-property decision thresholds.
	Matcher GeoMatcherConfig `yaml:"matcher" json:"matcher"`

	// SourcePriority orders providers from most to least trusted for
	// field selection during merge.
	SourcePriority []domain.Source `yaml:"source_priority" json:"source_priority" validate:"required,min=1"`
}

// DefaultConfig returns the deduplication defaults: 11 m / 5% matcher
// thresholds and redfin > realtor > zillow field priority.
func DefaultConfig() Config {
	return Config{
		Matcher: DefaultGeoMatcherConfig(),
		SourcePriority: []domain.Source{
			domain.SourceRedfin,
			domain.SourceRealtor,
			domain.SourceZillow,
		},
	}
}

// Deduplicator clusters raw listings via transitive closure of the match
// relation and merges each cluster into one canonical listing. It is
// stateless across passes and safe for concurrent use.
//
// The pass is O(n²) pair tests. Listings number in the low thousands, so
// this is deliberately simple over clever; no spatial index is needed at
// this scale.
type Deduplicator struct {
	matcher *GeoMatcher
	merger  *Merger
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// NewDeduplicator creates a Deduplicator from the given configuration.
// Passing a nil collector disables metrics.
func NewDeduplicator(config Config, metrics ports.MetricsCollector) (*Deduplicator, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	matcher, err := NewGeoMatcher(config.Matcher)
	if err != nil {
		return nil, err
	}
	merger, err := NewMerger(config.SourcePriority)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Deduplicator{
		matcher: matcher,
		merger:  merger,
		metrics: metrics,
		tracer:  otel.Tracer("deduplicator"),
	}, nil
}

// Deduplicate resolves the input listings into canonical listings. The
// result is independent of input order: listings are canonically sorted
// before pair testing and clusters are emitted sorted by cluster key.
func (d *Deduplicator) Deduplicate(ctx context.Context, listings []domain.RawListing) ([]domain.CanonicalListing, error) {
	_, span := d.tracer.Start(ctx, "Deduplicator.Deduplicate",
		trace.WithAttributes(attribute.Int("dedup.listings_in", len(listings))),
	)
	defer span.End()

	start := time.Now()

	clusters := d.Cluster(listings)

	canonical := make([]domain.CanonicalListing, len(clusters))
	for i, cluster := range clusters {
		canonical[i] = d.merger.Merge(cluster)
	}

	span.SetAttributes(
		attribute.Int("dedup.clusters_out", len(canonical)),
		attribute.Int64("dedup.latency_ms", time.Since(start).Milliseconds()),
	)
	d.metrics.RecordLatency("deduplicate", time.Since(start), nil)
	d.metrics.RecordCounter("listings_in", float64(len(listings)), nil)
	d.metrics.RecordCounter("clusters_out", float64(len(canonical)), nil)

	return canonical, nil
}

// Cluster groups the input listings into listing clusters without
// merging them. Exposed separately so callers can audit membership.
func (d *Deduplicator) Cluster(listings []domain.RawListing) []domain.ListingCluster {
	// Sort a copy by listing key so the pair loop, and therefore every
	// union, runs in a canonical order regardless of input ordering.
	sorted := make([]domain.RawListing, len(listings))
	copy(sorted, listings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key() < sorted[j].Key() })

	keys := make([]string, len(sorted))
	for i, l := range sorted {
		keys[i] = NormalizeAddress(l.Address, l.City, l.State, l.Zip)
	}

	uf := newUnionFind(len(sorted))
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if uf.find(i) == uf.find(j) {
				continue
			}
			if keys[i] != "" && keys[i] == keys[j] {
				uf.union(i, j)
				d.metrics.RecordCounter("address_matches", 1, nil)
				continue
			}
			if d.matcher.MatchGeo(sorted[i], sorted[j], keys[i], keys[j]) {
				uf.union(i, j)
				d.metrics.RecordCounter("geo_matches", 1, nil)
			}
		}
	}

	groups := make(map[int][]domain.RawListing)
	for i, l := range sorted {
		root := uf.find(i)
		groups[root] = append(groups[root], l)
	}

	clusters := make([]domain.ListingCluster, 0, len(groups))
	for _, members := range groups {
		clusters = append(clusters, domain.NewListingCluster(members))
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Key() < clusters[j].Key() })
	return clusters
}
