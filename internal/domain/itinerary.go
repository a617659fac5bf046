// Package domain contains the canonical model for the travel decision engine.
// Every provider record is normalized into these types before any scoring,
// deduplication, or explanation happens; they are provider-agnostic and form
// the foundation upon which all other components are built.
package domain

import (
	"fmt"
	"time"
)

// CabinClass is a normalized travel cabin.
type CabinClass string

// Supported cabin classes.
const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

// IsValid checks whether the cabin class is one of the supported values.
func (c CabinClass) IsValid() bool {
	switch c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return true
	default:
		return false
	}
}

// Airport identifies an airport on a leg.
type Airport struct {
	// Code is the IATA airport code (e.g., "JFK")
	Code string `json:"code"`

	// Name is the full airport name (e.g., "John F Kennedy Intl")
	Name string `json:"name,omitempty"`

	// City is the city served by the airport
	City string `json:"city,omitempty"`

	// Timezone is the IANA timezone identifier (e.g., "America/New_York").
	// Used for local-time risk rules (red-eye, overnight layover).
	Timezone string `json:"timezone,omitempty"`
}

// Leg is a single flight segment between two airports.
type Leg struct {
	// Origin is the departure airport
	Origin Airport `json:"origin"`

	// Destination is the arrival airport
	Destination Airport `json:"destination"`

	// Departure is the scheduled departure time
	Departure time.Time `json:"departure"`

	// Arrival is the scheduled arrival time
	Arrival time.Time `json:"arrival"`

	// AirlineCode is the IATA code of the marketing carrier (e.g., "AA")
	AirlineCode string `json:"airlineCode"`

	// AirlineName is the marketing carrier's full name
	AirlineName string `json:"airlineName,omitempty"`

	// FlightNumber is the marketing flight number (e.g., "AA123")
	FlightNumber string `json:"flightNumber"`

	// CabinClass is the booked cabin on this leg
	CabinClass CabinClass `json:"cabinClass"`

	// OperatingCarrier is the actual operator when the leg is a codeshare.
	// Empty when the marketing carrier operates the flight itself.
	OperatingCarrier string `json:"operatingCarrier,omitempty"`

	// SelfTransfer marks a leg whose connection from the previous leg is not
	// protected by the airlines (bags are not checked through).
	SelfTransfer bool `json:"selfTransfer,omitempty"`

	// GroundTransfer marks a leg reached by ground transport from a different
	// airport than the previous leg's arrival (same city, different airport).
	GroundTransfer bool `json:"groundTransfer,omitempty"`

	// OnTimeRate is the historical on-time performance in [0,1], negative
	// when unknown.
	OnTimeRate float64 `json:"onTimeRate,omitempty"`
}

// Duration returns the in-air duration of the leg.
func (l Leg) Duration() time.Duration {
	return l.Arrival.Sub(l.Departure)
}

// Validate checks the leg's internal invariants.
func (l Leg) Validate() error {
	if l.Origin.Code == "" || l.Destination.Code == "" {
		return fmt.Errorf("%w: leg %s is missing an airport code", ErrInvalidRecord, l.FlightNumber)
	}
	if l.FlightNumber == "" {
		return fmt.Errorf("%w: leg %s-%s has no flight number", ErrInvalidRecord, l.Origin.Code, l.Destination.Code)
	}
	if l.Departure.IsZero() || l.Arrival.IsZero() {
		return fmt.Errorf("%w: leg %s has a missing timestamp", ErrInvalidRecord, l.FlightNumber)
	}
	if !l.Departure.Before(l.Arrival) {
		return fmt.Errorf("%w: leg %s departs at or after it arrives", ErrInvalidRecord, l.FlightNumber)
	}
	return nil
}

// FeeType classifies an itemized fee on a price.
type FeeType string

// Fee types relevant to the hidden-cost analysis.
const (
	FeeCarryOn    FeeType = "carry_on"
	FeeCheckedBag FeeType = "checked_bag"
	FeeSeat       FeeType = "seat_selection"
)

// Fee is a single itemized charge attached to a price.
type Fee struct {
	// Type classifies the fee
	Type FeeType `json:"type"`

	// Amount is the fee amount in the price's currency
	Amount float64 `json:"amount"`

	// Included reports whether the fee is already part of the display total
	Included bool `json:"included"`
}

// Price is the aggregated price of an itinerary.
type Price struct {
	// Total is the display total as quoted by the provider
	Total float64 `json:"total"`

	// Currency is the ISO 4217 currency code
	Currency string `json:"currency"`

	// BaseFare is the fare before taxes and fees
	BaseFare float64 `json:"baseFare"`

	// Fees itemizes optional charges (bags, seats). Fees with Included=false
	// are not part of Total and feed the true-total calculation.
	Fees []Fee `json:"fees,omitempty"`
}

// Validate checks the price invariants.
func (p Price) Validate() error {
	if p.Total < 0 {
		return fmt.Errorf("%w: negative total price %.2f", ErrInvalidRecord, p.Total)
	}
	if p.BaseFare < 0 {
		return fmt.Errorf("%w: negative base fare %.2f", ErrInvalidRecord, p.BaseFare)
	}
	if p.Total < p.BaseFare {
		return fmt.Errorf("%w: total %.2f below base fare %.2f", ErrInvalidRecord, p.Total, p.BaseFare)
	}
	return nil
}

// TrueTotal returns the price a traveler actually pays to fly with a carry-on
// and a checked bag: the display total plus every bag fee not already
// included. Hidden-cost comparisons must always use this, never mix it with
// display totals.
func (p Price) TrueTotal() float64 {
	total := p.Total
	for _, fee := range p.Fees {
		if fee.Included {
			continue
		}
		if fee.Type == FeeCarryOn || fee.Type == FeeCheckedBag {
			total += fee.Amount
		}
	}
	return total
}

// IncludesBag reports whether a fee of the given type is included in the
// display total. A fee type that is not itemized at all counts as included
// (full-service carriers usually do not itemize bags).
func (p Price) IncludesBag(t FeeType) bool {
	for _, fee := range p.Fees {
		if fee.Type == t {
			return fee.Included
		}
	}
	return true
}

// Tradeoff is a structured comparison between two ranked itineraries.
type Tradeoff struct {
	// AgainstID is the itinerary being compared against
	AgainstID string `json:"againstId"`

	// PriceDelta is other.price - this.price (positive = other is dearer)
	PriceDelta float64 `json:"priceDelta"`

	// DurationDeltaMinutes is other.duration - this.duration
	DurationDeltaMinutes int `json:"durationDeltaMinutes"`

	// StopsDelta is other.stops - this.stops
	StopsDelta int `json:"stopsDelta"`

	// Sentence is the rendered human-readable statement
	Sentence string `json:"sentence"`
}

// PriceAdvice is the booking-window recommendation for an itinerary.
type PriceAdvice struct {
	// Advice is one of "buy_now", "wait", "monitor"
	Advice string `json:"advice"`

	// Confidence is in [0,1]
	Confidence float64 `json:"confidence"`

	// PredictedChange is the expected price movement in the itinerary currency
	PredictedChange float64 `json:"predictedChange"`

	// Factors lists the signals behind the advice
	Factors []string `json:"factors,omitempty"`
}

// Itinerary is one complete bookable journey composed of one or more legs.
// It is created by the normalizer, enriched in place by the pipeline stages,
// and frozen once it enters the result cache.
type Itinerary struct {
	// ID uniquely identifies this itinerary within the engine
	ID string `json:"id"`

	// Legs are the flight segments in chronological order (at least one)
	Legs []Leg `json:"legs"`

	// Price is the aggregated display price
	Price Price `json:"price"`

	// MinPriceSeen is the lowest total observed across all duplicate records
	// of this physical journey. Equals Price.Total when no duplicate was
	// cheaper.
	MinPriceSeen float64 `json:"minPriceSeen"`

	// TotalDurationMinutes spans first departure to last arrival
	TotalDurationMinutes int `json:"totalDurationMinutes"`

	// Stops is len(Legs) - 1
	Stops int `json:"stops"`

	// SeparateTickets marks journeys issued as multiple bookings
	SeparateTickets bool `json:"separateTickets,omitempty"`

	// RiskFlags are the detected risk conditions
	RiskFlags []RiskFlag `json:"riskFlags,omitempty"`

	// Breakdown holds the per-dimension sub-scores once scored
	Breakdown *ScoreBreakdown `json:"scoreBreakdown,omitempty"`

	// Score is the overall weighted score in [0,100]
	Score float64 `json:"score"`

	// Explanation is the generated rationale text
	Explanation string `json:"explanation,omitempty"`

	// Tradeoffs compare this itinerary against the top-ranked one
	Tradeoffs []Tradeoff `json:"tradeoffs,omitempty"`

	// Advice is the booking-window price recommendation
	Advice *PriceAdvice `json:"priceAdvice,omitempty"`

	// Provider identifies the source this record came from
	Provider string `json:"provider"`

	// ProviderTrust is the configured trust weight of the source in [0,1],
	// or negative when the source has no configured weight
	ProviderTrust float64 `json:"-"`

	// Notes carries source annotations (e.g., "also available via ...")
	Notes []string `json:"notes,omitempty"`
}

// IsDirect reports whether the itinerary has no stops.
func (it *Itinerary) IsDirect() bool {
	return it.Stops == 0
}

// Layovers returns the gap between consecutive legs, one entry per stop.
func (it *Itinerary) Layovers() []time.Duration {
	if len(it.Legs) < 2 {
		return nil
	}
	gaps := make([]time.Duration, 0, len(it.Legs)-1)
	for i := 0; i < len(it.Legs)-1; i++ {
		gaps = append(gaps, it.Legs[i+1].Departure.Sub(it.Legs[i].Arrival))
	}
	return gaps
}

// Validate checks the itinerary's structural invariants: at least one leg,
// legs chronologically ordered with non-negative layovers, and airports
// chained unless the following leg is an explicit ground or self transfer.
func (it *Itinerary) Validate() error {
	if len(it.Legs) == 0 {
		return fmt.Errorf("%w: itinerary %s has no legs", ErrInvalidRecord, it.ID)
	}
	if err := it.Price.Validate(); err != nil {
		return err
	}
	for i, leg := range it.Legs {
		if err := leg.Validate(); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		prev := it.Legs[i-1]
		if leg.Departure.Before(prev.Arrival) {
			return fmt.Errorf("%w: itinerary %s leg %d departs before leg %d arrives",
				ErrInvalidRecord, it.ID, i+1, i)
		}
		if prev.Destination.Code != leg.Origin.Code && !leg.GroundTransfer && !leg.SelfTransfer {
			return fmt.Errorf("%w: itinerary %s breaks the airport chain at leg %d (%s -> %s)",
				ErrInvalidRecord, it.ID, i+1, prev.Destination.Code, leg.Origin.Code)
		}
	}
	return nil
}

// FormatMinutes renders a minute count as "Xh Ym" for explanations.
func FormatMinutes(totalMinutes int) string {
	if totalMinutes < 0 {
		totalMinutes = -totalMinutes
	}
	hours := totalMinutes / 60
	mins := totalMinutes % 60
	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}
