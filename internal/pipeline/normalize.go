// Package pipeline implements the decision pipeline that turns raw provider
// records into a ranked, explained itinerary list: normalize, deduplicate,
// detect risks, score, explain. Every stage is a pure transformation over an
// in-memory batch; the orchestrator in internal/usecase wires them together.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// Normalizer converts raw provider records into canonical itineraries and
// computes derived fields. Records that fail validation are dropped and
// counted, never fatal to the batch.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeResult is the outcome of normalizing one batch.
type NormalizeResult struct {
	// Itineraries are the valid canonical records
	Itineraries []domain.Itinerary

	// Dropped counts records rejected by validation
	Dropped int

	// DropReasons collects one message per dropped record, for diagnostics
	DropReasons []string
}

// Normalize converts a batch of raw records. Provider trust weights are
// attached here so downstream stages never need provider configuration.
func (n *Normalizer) Normalize(records []domain.RawRecord, trust map[string]float64) NormalizeResult {
	result := NormalizeResult{
		Itineraries: make([]domain.Itinerary, 0, len(records)),
	}

	for _, rec := range records {
		itin, err := n.normalizeRecord(rec, trust)
		if err != nil {
			result.Dropped++
			result.DropReasons = append(result.DropReasons, err.Error())
			continue
		}
		result.Itineraries = append(result.Itineraries, itin)
	}

	return result
}

// normalizeRecord converts and validates a single raw record.
func (n *Normalizer) normalizeRecord(rec domain.RawRecord, trust map[string]float64) (domain.Itinerary, error) {
	if len(rec.Legs) == 0 {
		return domain.Itinerary{}, fmt.Errorf("%w: record %s from %s has no legs",
			domain.ErrInvalidRecord, rec.ProviderID, rec.Provider)
	}

	legs := make([]domain.Leg, len(rec.Legs))
	for i, raw := range rec.Legs {
		legs[i] = domain.Leg{
			Origin: domain.Airport{
				Code:     strings.ToUpper(raw.OriginCode),
				City:     raw.OriginCity,
				Timezone: raw.OriginTimezone,
			},
			Destination: domain.Airport{
				Code:     strings.ToUpper(raw.DestCode),
				City:     raw.DestCity,
				Timezone: raw.DestTimezone,
			},
			Departure:        raw.Departure,
			Arrival:          raw.Arrival,
			AirlineCode:      strings.ToUpper(raw.AirlineCode),
			AirlineName:      raw.AirlineName,
			FlightNumber:     strings.ToUpper(strings.ReplaceAll(raw.FlightNumber, " ", "")),
			CabinClass:       normalizeCabin(raw.CabinClass),
			OperatingCarrier: raw.OperatingCarrier,
			GroundTransfer:   raw.GroundTransfer,
			OnTimeRate:       raw.OnTimeRate,
		}
	}

	// Self-transfer detection: consecutive legs on different marketing
	// carriers without checked-through baggage.
	for i := 1; i < len(legs); i++ {
		if legs[i].AirlineCode != legs[i-1].AirlineCode && !rec.Legs[i-1].CheckedThrough {
			legs[i].SelfTransfer = true
		}
	}

	itin := domain.Itinerary{
		ID:   newItineraryID(rec),
		Legs: legs,
		Price: domain.Price{
			Total:    rec.TotalPrice,
			Currency: strings.ToUpper(rec.Currency),
			BaseFare: rec.BaseFare,
			Fees:     normalizeFees(rec.Fees),
		},
		MinPriceSeen:    rec.TotalPrice,
		SeparateTickets: rec.SeparateTickets,
		Provider:        rec.Provider,
		ProviderTrust:   trustWeight(trust, rec.Provider),
	}

	// Derived fields: span from first departure to last arrival, so layover
	// time is included.
	itin.Stops = len(legs) - 1
	itin.TotalDurationMinutes = int(legs[len(legs)-1].Arrival.Sub(legs[0].Departure).Minutes())

	if err := itin.Validate(); err != nil {
		return domain.Itinerary{}, err
	}
	return itin, nil
}

// newItineraryID derives a stable engine-local ID for a record. The provider
// ID is kept when present so duplicates across runs stay recognizable;
// records without one get a random UUID.
func newItineraryID(rec domain.RawRecord) string {
	if rec.ProviderID != "" {
		return rec.Provider + ":" + rec.ProviderID
	}
	return rec.Provider + ":" + uuid.New().String()
}

// normalizeFees maps raw fee items onto the canonical fee types, dropping
// anything unrecognized.
func normalizeFees(fees []domain.RawFee) []domain.Fee {
	if len(fees) == 0 {
		return nil
	}
	out := make([]domain.Fee, 0, len(fees))
	for _, f := range fees {
		var t domain.FeeType
		switch strings.ToLower(strings.TrimSpace(f.Type)) {
		case "carry_on", "carryon", "cabin_bag", "cabin":
			t = domain.FeeCarryOn
		case "checked_bag", "checked", "hold_bag":
			t = domain.FeeCheckedBag
		case "seat", "seat_selection":
			t = domain.FeeSeat
		default:
			continue
		}
		out = append(out, domain.Fee{Type: t, Amount: f.Amount, Included: f.Included})
	}
	return out
}

// normalizeCabin maps provider cabin strings onto the canonical classes.
func normalizeCabin(cabin string) domain.CabinClass {
	switch strings.ToLower(strings.TrimSpace(cabin)) {
	case "economy", "eco", "y", "m":
		return domain.CabinEconomy
	case "premium_economy", "premium economy", "w":
		return domain.CabinPremiumEconomy
	case "business", "biz", "j", "c":
		return domain.CabinBusiness
	case "first", "f":
		return domain.CabinFirst
	default:
		return domain.CabinEconomy
	}
}

// trustWeight resolves a provider's configured trust weight. Providers
// absent from the configuration get a negative sentinel so scoring can tell
// "unconfigured" apart from an explicit weight.
func trustWeight(trust map[string]float64, provider string) float64 {
	if w, ok := trust[provider]; ok {
		return w
	}
	return -1
}
