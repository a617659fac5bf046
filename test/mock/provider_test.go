package mock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRecordsAreDistinctAcrossProviders(t *testing.T) {
	amadeus := SampleRecords("amadeus", 3)
	kiwi := SampleRecords("kiwi", 3)

	// Two providers must never emit the same (flight number, departure)
	// pair, or the deduplicator would merge them as one physical flight.
	seen := make(map[string]string)
	for _, rec := range append(amadeus, kiwi...) {
		require.Len(t, rec.Legs, 1)
		leg := rec.Legs[0]
		key := leg.FlightNumber + "@" + leg.Departure.UTC().Format("200601021504")
		if other, dup := seen[key]; dup {
			t.Fatalf("flight %s emitted by both %s and %s", key, other, rec.Provider)
		}
		seen[key] = rec.Provider
	}
	assert.Len(t, seen, 6)
}

func TestSampleRecordsShape(t *testing.T) {
	records := SampleRecords("amadeus", 2)
	require.Len(t, records, 2)

	for i, rec := range records {
		assert.Equal(t, "amadeus", rec.Provider)
		assert.NotEmpty(t, rec.ProviderID, "record %d", i)
		require.Len(t, rec.Legs, 1)
		assert.Equal(t, "JFK", rec.Legs[0].OriginCode)
		assert.Equal(t, "LAX", rec.Legs[0].DestCode)
		assert.True(t, rec.Legs[0].Departure.Before(rec.Legs[0].Arrival))
		assert.Greater(t, rec.TotalPrice, 0.0)
	}

	// Deterministic: the same provider and count always yield the same set.
	again := SampleRecords("amadeus", 2)
	assert.Equal(t, records, again)
	assert.Equal(t, 2*time.Hour, records[1].Legs[0].Departure.Sub(records[0].Legs[0].Departure))
}
