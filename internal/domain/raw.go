package domain

import (
	"context"
	"time"
)

// RawLeg is one segment of a provider record before normalization.
// Timestamps are already parsed by the provider adapter; everything else is
// passed through as received.
type RawLeg struct {
	OriginCode       string
	OriginCity       string
	OriginTimezone   string
	DestCode         string
	DestCity         string
	DestTimezone     string
	Departure        time.Time
	Arrival          time.Time
	AirlineCode      string
	AirlineName      string
	FlightNumber     string
	CabinClass       string
	OperatingCarrier string

	// CheckedThrough reports whether bags are checked through to the next
	// leg. False on the last leg is meaningless.
	CheckedThrough bool

	// GroundTransfer marks a segment that starts at a different airport than
	// the previous one arrived at (same city, different airport).
	GroundTransfer bool

	// OnTimeRate is the historical on-time performance in [0,1]; negative
	// when the provider does not report it.
	OnTimeRate float64
}

// RawFee is an itemized charge on a raw record.
type RawFee struct {
	Type     string
	Amount   float64
	Included bool
}

// RawRecord is one itinerary as returned by a provider adapter, the single
// shape every provider variant converts into before entering the normalizer.
// Provider wire formats never reach the pipeline directly.
type RawRecord struct {
	// ProviderID is the record's ID in the provider's system
	ProviderID string

	// Provider is the adapter's unique name
	Provider string

	Legs []RawLeg

	TotalPrice float64
	Currency   string
	BaseFare   float64
	Fees       []RawFee

	// SeparateTickets marks journeys issued as multiple bookings
	SeparateTickets bool
}

//go:generate mockgen -source=raw.go -destination=provider_mock.go -package=domain

// Provider is the contract every flight data source implements.
// Implementations must respect context cancellation and return raw records
// in their own wire shape converted to RawRecord.
type Provider interface {
	// Name returns the provider's unique identifier.
	Name() string

	// Search fetches raw itinerary records matching the request.
	Search(ctx context.Context, req SearchRequest) ([]RawRecord, error)
}
