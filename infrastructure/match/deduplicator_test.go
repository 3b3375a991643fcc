package match

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmercer/go-dealscout/internal/domain"
)

func newTestDeduplicator(t *testing.T) *Deduplicator {
	t.Helper()
	d, err := NewDeduplicator(DefaultConfig(), nil)
	require.NoError(t, err)
	return d
}

func TestDeduplicator_AddressMatch(t *testing.T) {
	d := newTestDeduplicator(t)

	listings := []domain.RawListing{
		{
			Source: domain.SourceRedfin, SourceID: "r1",
			Address: "123 Main Street", City: "Springfield", State: "IL", Zip: "62704",
			Price: 450_000,
		},
		{
			Source: domain.SourceZillow, SourceID: "z1",
			Address: "123 main st.", City: "Springfield", State: "il", Zip: "62704-9999",
			Price: 455_000,
		},
		{
			Source: domain.SourceRealtor, SourceID: "m1",
			Address: "999 Other Rd", City: "Springfield", State: "IL", Zip: "62704",
			Price: 310_000,
		},
	}

	clusters := d.Cluster(listings)
	require.Len(t, clusters, 2)

	// Clusters come out sorted by cluster key.
	assert.Equal(t, []string{"realtor:m1"}, clusters[0].MemberKeys())
	assert.Equal(t, []string{"redfin:r1", "zillow:z1"}, clusters[1].MemberKeys())
}

func TestDeduplicator_GeoMatch(t *testing.T) {
	d := newTestDeduplicator(t)

	// Different street spellings that do not normalize equal, but within a
	// few meters at the same price.
	listings := []domain.RawListing{
		{
			Source: domain.SourceRedfin, SourceID: "r1",
			Address: "123 Mane St", City: "Philadelphia", State: "PA", Zip: "19103",
			Latitude: fptr(39.9000), Longitude: fptr(-75.1000),
			Price: 450_000,
		},
		{
			Source: domain.SourceZillow, SourceID: "z1",
			Address: "123 Main St", City: "Philadelphia", State: "PA", Zip: "19103",
			Latitude: fptr(39.90005), Longitude: fptr(-75.10005),
			Price: 450_000,
		},
	}

	clusters := d.Cluster(listings)
	require.Len(t, clusters, 1)
	assert.Equal(t, 2, clusters[0].Size())
}

func TestDeduplicator_GeoTooFar(t *testing.T) {
	d := newTestDeduplicator(t)

	listings := []domain.RawListing{
		{
			Source: domain.SourceRedfin, SourceID: "r1",
			Address: "123 Mane St", City: "Philadelphia", State: "PA", Zip: "19103",
			Latitude: fptr(39.9000), Longitude: fptr(-75.1000),
			Price: 450_000,
		},
		{
			Source: domain.SourceZillow, SourceID: "z1",
			Address: "456 Main St", City: "Philadelphia", State: "PA", Zip: "19103",
			Latitude: fptr(39.9050), Longitude: fptr(-75.1050),
			Price: 450_000,
		},
	}

	clusters := d.Cluster(listings)
	assert.Len(t, clusters, 2)
}

func TestDeduplicator_TransitiveClosure(t *testing.T) {
	d := newTestDeduplicator(t)

	// A matches B by address; B matches C by geo; A and C share nothing
	// directly. All three must land in one cluster.
	a := domain.RawListing{
		Source: domain.SourceRedfin, SourceID: "r1",
		Address: "123 Main Street", City: "Springfield", State: "IL", Zip: "62704",
		Price: 450_000,
	}
	b := domain.RawListing{
		Source: domain.SourceZillow, SourceID: "z1",
		Address: "123 Main St", City: "Springfield", State: "IL", Zip: "62704",
		Latitude: fptr(39.9000), Longitude: fptr(-75.1000),
		Price: 455_000,
	}
	c := domain.RawListing{
		Source: domain.SourceRealtor, SourceID: "m1",
		Address: "123 Maine Street", City: "Springfeild", State: "IL", Zip: "62704",
		Latitude: fptr(39.90002), Longitude: fptr(-75.10002),
		Price: 455_000,
	}

	clusters := d.Cluster([]domain.RawListing{a, b, c})
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"realtor:m1", "redfin:r1", "zillow:z1"}, clusters[0].MemberKeys())
}

func TestDeduplicator_OrderIndependence(t *testing.T) {
	d := newTestDeduplicator(t)

	listings := []domain.RawListing{
		{
			Source: domain.SourceRedfin, SourceID: "r1",
			Address: "123 Main Street", City: "Springfield", State: "IL", Zip: "62704",
			Price: 450_000,
		},
		{
			Source: domain.SourceZillow, SourceID: "z1",
			Address: "123 Main St", City: "Springfield", State: "IL", Zip: "62704",
			Price: 452_000,
		},
		{
			Source: domain.SourceRealtor, SourceID: "m1",
			Address: "77 Elm Ave", City: "Springfield", State: "IL", Zip: "62704",
			Latitude: fptr(39.95), Longitude: fptr(-75.15),
			Price: 380_000,
		},
		{
			Source: domain.SourceZillow, SourceID: "z2",
			Address: "77 Elm Avenue", City: "Springfield", State: "IL", Zip: "62704",
			Latitude: fptr(39.95001), Longitude: fptr(-75.15001),
			Price: 381_000,
		},
		{
			Source: domain.SourceRedfin, SourceID: "r2",
			Address: "500 Solo Ln", City: "Springfield", State: "IL", Zip: "62704",
			Price: 299_000,
		},
	}

	ctx := context.Background()
	baseline, err := d.Deduplicate(ctx, listings)
	require.NoError(t, err)
	require.Len(t, baseline, 3)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.RawListing, len(listings))
		copy(shuffled, listings)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := d.Deduplicate(ctx, shuffled)
		require.NoError(t, err)
		assert.Equal(t, baseline, got, "shuffle %d changed the output", i)
	}
}

func TestDeduplicator_EmptyAddressesDoNotCluster(t *testing.T) {
	d := newTestDeduplicator(t)

	// Two listings with no street and no coordinates share an empty
	// address key, which must never count as a match.
	listings := []domain.RawListing{
		{Source: domain.SourceRedfin, SourceID: "r1", City: "Springfield", State: "IL", Zip: "62704", Price: 450_000},
		{Source: domain.SourceZillow, SourceID: "z1", City: "Springfield", State: "IL", Zip: "62704", Price: 450_000},
	}

	clusters := d.Cluster(listings)
	assert.Len(t, clusters, 2)
}

func TestDeduplicator_Deduplicate_MergesProvenance(t *testing.T) {
	d := newTestDeduplicator(t)

	canonical, err := d.Deduplicate(context.Background(), []domain.RawListing{
		{
			Source: domain.SourceZillow, SourceID: "z1",
			Address: "123 Main St", City: "Springfield", State: "IL", Zip: "62704",
			Price:     455_000,
			Zestimate: i64ptr(470_000),
		},
		{
			Source: domain.SourceRedfin, SourceID: "r1",
			Address: "123 Main Street", City: "Springfield", State: "IL", Zip: "62704",
			Price:          450_000,
			RedfinEstimate: i64ptr(465_000),
		},
	})
	require.NoError(t, err)
	require.Len(t, canonical, 1)

	got := canonical[0]
	assert.Equal(t, []domain.Source{domain.SourceRedfin, domain.SourceZillow}, got.Sources)
	assert.Equal(t, int64(450_000), got.Price, "redfin outranks zillow for the price")
	require.NotNil(t, got.RedfinEstimate)
	require.NotNil(t, got.Zestimate)

	estimate, ok := got.Estimate()
	require.True(t, ok)
	assert.Equal(t, int64(465_000), estimate)
}

func TestDeduplicator_NoListings(t *testing.T) {
	d := newTestDeduplicator(t)

	canonical, err := d.Deduplicate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, canonical)
}
