package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return parsed
}

func twoLegItinerary(t *testing.T) Itinerary {
	t.Helper()
	return Itinerary{
		ID: "itin-1",
		Legs: []Leg{
			{
				Origin:       Airport{Code: "JFK", Timezone: "America/New_York"},
				Destination:  Airport{Code: "ORD", Timezone: "America/Chicago"},
				Departure:    mustTime(t, "2026-09-15T08:00:00-04:00"),
				Arrival:      mustTime(t, "2026-09-15T09:45:00-05:00"),
				AirlineCode:  "AA",
				FlightNumber: "AA100",
				CabinClass:   CabinEconomy,
			},
			{
				Origin:       Airport{Code: "ORD", Timezone: "America/Chicago"},
				Destination:  Airport{Code: "LAX", Timezone: "America/Los_Angeles"},
				Departure:    mustTime(t, "2026-09-15T11:45:00-05:00"),
				Arrival:      mustTime(t, "2026-09-15T14:00:00-07:00"),
				AirlineCode:  "AA",
				FlightNumber: "AA250",
				CabinClass:   CabinEconomy,
			},
		},
		Price: Price{Total: 320, Currency: "USD", BaseFare: 280},
	}
}

func TestItineraryValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Itinerary)
		wantErr bool
	}{
		{
			name:    "valid two-leg itinerary",
			mutate:  func(it *Itinerary) {},
			wantErr: false,
		},
		{
			name:    "no legs",
			mutate:  func(it *Itinerary) { it.Legs = nil },
			wantErr: true,
		},
		{
			name: "departure after arrival",
			mutate: func(it *Itinerary) {
				it.Legs[0].Departure = it.Legs[0].Arrival.Add(time.Hour)
			},
			wantErr: true,
		},
		{
			name: "negative layover",
			mutate: func(it *Itinerary) {
				it.Legs[1].Departure = it.Legs[0].Arrival.Add(-30 * time.Minute)
			},
			wantErr: true,
		},
		{
			name: "broken airport chain",
			mutate: func(it *Itinerary) {
				it.Legs[1].Origin.Code = "MDW"
			},
			wantErr: true,
		},
		{
			name: "airport mismatch allowed for ground transfer",
			mutate: func(it *Itinerary) {
				it.Legs[1].Origin.Code = "MDW"
				it.Legs[1].GroundTransfer = true
			},
			wantErr: false,
		},
		{
			name: "total below base fare",
			mutate: func(it *Itinerary) {
				it.Price.BaseFare = it.Price.Total + 1
			},
			wantErr: true,
		},
		{
			name: "missing flight number",
			mutate: func(it *Itinerary) {
				it.Legs[0].FlightNumber = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := twoLegItinerary(t)
			tt.mutate(&it)

			err := it.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItineraryLayovers(t *testing.T) {
	it := twoLegItinerary(t)

	gaps := it.Layovers()
	require.Len(t, gaps, 1)
	assert.Equal(t, 2*time.Hour, gaps[0])

	direct := Itinerary{Legs: it.Legs[:1]}
	assert.Nil(t, direct.Layovers())
}

func TestPriceTrueTotal(t *testing.T) {
	tests := []struct {
		name  string
		price Price
		want  float64
	}{
		{
			name:  "no fees means display total",
			price: Price{Total: 220, BaseFare: 200},
			want:  220,
		},
		{
			name: "excluded bag fees are added",
			price: Price{Total: 175, BaseFare: 150, Fees: []Fee{
				{Type: FeeCarryOn, Amount: 45, Included: false},
				{Type: FeeCheckedBag, Amount: 55, Included: false},
			}},
			want: 275,
		},
		{
			name: "included fees do not double count",
			price: Price{Total: 220, BaseFare: 180, Fees: []Fee{
				{Type: FeeCarryOn, Amount: 0, Included: true},
				{Type: FeeCheckedBag, Amount: 35, Included: true},
			}},
			want: 220,
		},
		{
			name: "seat fees never count as hidden cost",
			price: Price{Total: 100, BaseFare: 90, Fees: []Fee{
				{Type: FeeSeat, Amount: 15, Included: false},
			}},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.price.TrueTotal(), 0.001)
		})
	}
}

func TestPriceIncludesBag(t *testing.T) {
	p := Price{Total: 175, Fees: []Fee{
		{Type: FeeCarryOn, Amount: 45, Included: false},
	}}

	assert.False(t, p.IncludesBag(FeeCarryOn))
	// Not itemized at all counts as included.
	assert.True(t, p.IncludesBag(FeeCheckedBag))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "2h 30m", FormatMinutes(150))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "1h 5m", FormatMinutes(-65))
}
