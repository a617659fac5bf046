package amadeus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

const sampleResponse = `{
	"data": [
		{
			"id": "1",
			"itineraries": [
				{
					"duration": "PT9H0M",
					"segments": [
						{
							"id": "11",
							"departure": {"iataCode": "JFK", "terminal": "4", "at": "2026-09-15T08:00:00"},
							"arrival": {"iataCode": "ORD", "terminal": "1", "at": "2026-09-15T09:45:00"},
							"carrierCode": "AA",
							"number": "100",
							"duration": "PT2H45M"
						},
						{
							"id": "12",
							"departure": {"iataCode": "ORD", "at": "2026-09-15T11:45:00"},
							"arrival": {"iataCode": "LAX", "at": "2026-09-15T14:00:00"},
							"carrierCode": "AA",
							"number": "250",
							"duration": "PT4H15M",
							"operating": {"carrierCode": "MQ"}
						}
					]
				}
			],
			"price": {"currency": "USD", "total": "320.40", "base": "280.00"}
		},
		{
			"id": "2",
			"itineraries": [
				{
					"duration": "PT6H30M",
					"segments": [
						{
							"id": "21",
							"departure": {"iataCode": "JFK", "at": "2026-09-15T09:00:00"},
							"arrival": {"iataCode": "LAX", "at": "2026-09-15T12:30:00"},
							"carrierCode": "DL",
							"number": "411",
							"duration": "PT6H30M"
						}
					]
				}
			],
			"price": {"currency": "USD", "total": "410.00", "base": "375.00"}
		}
	],
	"dictionaries": {
		"carriers": {"AA": "American Airlines", "DL": "Delta Air Lines"},
		"locations": {
			"JFK": {"cityCode": "NYC", "timezone": "America/New_York"},
			"ORD": {"cityCode": "CHI", "timezone": "America/Chicago"},
			"LAX": {"cityCode": "LAX", "timezone": "America/Los_Angeles"}
		}
	}
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amadeus.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func searchRequest() domain.SearchRequest {
	return domain.SearchRequest{
		Origins:       []string{"JFK"},
		Destinations:  []string{"LAX"},
		DepartureDate: "2026-09-15",
	}
}

func TestAdapterName(t *testing.T) {
	assert.Equal(t, "amadeus", NewAdapter("").Name())
}

func TestAdapterSearchParsesOffers(t *testing.T) {
	adapter := NewAdapter(writeFixture(t, sampleResponse))

	records, err := adapter.Search(context.Background(), searchRequest())
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec := records[0]
	assert.Equal(t, "1", rec.ProviderID)
	assert.Equal(t, "amadeus", rec.Provider)
	assert.InDelta(t, 320.40, rec.TotalPrice, 1e-9)
	assert.InDelta(t, 280.00, rec.BaseFare, 1e-9)
	assert.Equal(t, "USD", rec.Currency)

	require.Len(t, rec.Legs, 2)
	first := rec.Legs[0]
	assert.Equal(t, "JFK", first.OriginCode)
	assert.Equal(t, "NYC", first.OriginCity)
	assert.Equal(t, "America/New_York", first.OriginTimezone)
	assert.Equal(t, "ORD", first.DestCode)
	assert.Equal(t, "AA100", first.FlightNumber)
	assert.Equal(t, "American Airlines", first.AirlineName)
	assert.True(t, first.CheckedThrough)

	// Bare local timestamps resolve against the dictionary timezone.
	wantDep := time.Date(2026, 9, 15, 8, 0, 0, 0, mustLocation(t, "America/New_York"))
	assert.True(t, first.Departure.Equal(wantDep), "departure %v", first.Departure)

	second := rec.Legs[1]
	assert.Equal(t, "MQ", second.OperatingCarrier)
	assert.Equal(t, "AA250", second.FlightNumber)
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestAdapterSearchFiltersByRequest(t *testing.T) {
	adapter := NewAdapter(writeFixture(t, sampleResponse))

	t.Run("wrong destination", func(t *testing.T) {
		req := searchRequest()
		req.Destinations = []string{"SFO"}
		records, err := adapter.Search(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("wrong date", func(t *testing.T) {
		req := searchRequest()
		req.DepartureDate = "2026-09-16"
		records, err := adapter.Search(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("multiple candidate origins", func(t *testing.T) {
		req := searchRequest()
		req.Origins = []string{"EWR", "JFK"}
		records, err := adapter.Search(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestAdapterSearchMissingFixtureIsRetryable(t *testing.T) {
	adapter := NewAdapter(filepath.Join(t.TempDir(), "missing.json"))

	_, err := adapter.Search(context.Background(), searchRequest())
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
}

func TestAdapterSearchMalformedFixtureIsPermanent(t *testing.T) {
	adapter := NewAdapter(writeFixture(t, "{not json"))

	_, err := adapter.Search(context.Background(), searchRequest())
	require.Error(t, err)
	assert.False(t, domain.IsRetryable(err))
}

func TestAdapterSearchRespectsContext(t *testing.T) {
	adapter := NewAdapter(writeFixture(t, sampleResponse))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Search(ctx, searchRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdapterSearchSkipsUnmappableOffers(t *testing.T) {
	const broken = `{
		"data": [
			{
				"id": "1",
				"itineraries": [
					{"segments": [{"id": "11",
						"departure": {"iataCode": "JFK", "at": "not-a-time"},
						"arrival": {"iataCode": "LAX", "at": "2026-09-15T12:30:00"},
						"carrierCode": "DL", "number": "411"}]}
				],
				"price": {"currency": "USD", "total": "410.00", "base": "375.00"}
			}
		],
		"dictionaries": {"locations": {
			"JFK": {"cityCode": "NYC", "timezone": "America/New_York"},
			"LAX": {"cityCode": "LAX", "timezone": "America/Los_Angeles"}
		}}
	}`
	adapter := NewAdapter(writeFixture(t, broken))

	records, err := adapter.Search(context.Background(), searchRequest())
	require.NoError(t, err)
	assert.Empty(t, records)
}
