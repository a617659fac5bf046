package amadeus

import (
	"fmt"
	"strconv"
	"time"

	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/timeutil"
)

// ProviderName is the unique identifier for the Amadeus provider.
const ProviderName = "amadeus"

// normalize converts a search response to raw records.
func normalize(resp searchResponse) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(resp.Data))

	for _, off := range resp.Data {
		record, err := normalizeOffer(off, resp.Dictionaries)
		if err != nil {
			// Skip offers that cannot be mapped; the pipeline's normalizer
			// counts anything else that is structurally invalid.
			continue
		}
		records = append(records, record)
	}

	return records
}

// normalizeOffer converts a single flight offer to a raw record.
func normalizeOffer(off offer, dict dictionaries) (domain.RawRecord, error) {
	var legs []domain.RawLeg

	for _, itin := range off.Itineraries {
		for _, seg := range itin.Segments {
			departure, err := parseDateTime(seg.Departure.At, dict.Locations[seg.Departure.IATACode].Timezone)
			if err != nil {
				return domain.RawRecord{}, fmt.Errorf("segment %s departure: %w", seg.ID, err)
			}
			arrival, err := parseDateTime(seg.Arrival.At, dict.Locations[seg.Arrival.IATACode].Timezone)
			if err != nil {
				return domain.RawRecord{}, fmt.Errorf("segment %s arrival: %w", seg.ID, err)
			}

			leg := domain.RawLeg{
				OriginCode:     seg.Departure.IATACode,
				OriginCity:     dict.Locations[seg.Departure.IATACode].CityCode,
				OriginTimezone: dict.Locations[seg.Departure.IATACode].Timezone,
				DestCode:       seg.Arrival.IATACode,
				DestCity:       dict.Locations[seg.Arrival.IATACode].CityCode,
				DestTimezone:   dict.Locations[seg.Arrival.IATACode].Timezone,
				Departure:      departure,
				Arrival:        arrival,
				AirlineCode:    seg.CarrierCode,
				AirlineName:    carrierName(dict, seg.CarrierCode),
				FlightNumber:   seg.CarrierCode + seg.Number,
				CabinClass:     "economy",
				// GDS offers are single tickets with through-checked bags.
				CheckedThrough: true,
				OnTimeRate:     -1,
			}
			if seg.Operating != nil {
				leg.OperatingCarrier = seg.Operating.CarrierCode
			}
			legs = append(legs, leg)
		}
	}

	total, err := strconv.ParseFloat(off.Price.Total, 64)
	if err != nil {
		return domain.RawRecord{}, fmt.Errorf("price total %q: %w", off.Price.Total, err)
	}
	base, err := strconv.ParseFloat(off.Price.Base, 64)
	if err != nil {
		return domain.RawRecord{}, fmt.Errorf("price base %q: %w", off.Price.Base, err)
	}

	return domain.RawRecord{
		ProviderID: off.ID,
		Provider:   ProviderName,
		Legs:       legs,
		TotalPrice: total,
		Currency:   off.Price.Currency,
		BaseFare:   base,
	}, nil
}

// carrierName resolves a carrier code through the response dictionaries.
func carrierName(dict dictionaries, code string) string {
	if name, ok := dict.Carriers[code]; ok {
		return name
	}
	return code
}

// parseDateTime parses the segment timestamp. Amadeus sends local times,
// sometimes with an offset and sometimes bare; bare timestamps are resolved
// against the location's timezone from the dictionaries.
func parseDateTime(value, timezone string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	const bare = "2006-01-02T15:04:05"
	if timezone != "" {
		if t, err := timeutil.ParseInTimezone(bare, value, timezone); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(bare, value); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime %q", value)
}
