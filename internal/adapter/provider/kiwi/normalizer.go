package kiwi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// ProviderName is the unique identifier for the Kiwi provider.
const ProviderName = "kiwi"

// Kiwi timestamps are ISO with a Z suffix; local variants carry the station's
// wall time formatted as if it were UTC.
const timeLayout = "2006-01-02T15:04:05.000Z"

// normalize converts a search response to raw records.
func normalize(resp searchResponse) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(resp.Data))

	for _, trip := range resp.Data {
		record, err := normalizeTrip(trip, resp.Currency)
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	return records
}

// normalizeTrip converts one trip offer to a raw record.
func normalizeTrip(trip tripOffer, currency string) (domain.RawRecord, error) {
	legs := make([]domain.RawLeg, 0, len(trip.Route))

	for _, seg := range trip.Route {
		departure, err := segmentTime(seg.UTCDeparture, seg.LocalDeparture)
		if err != nil {
			return domain.RawRecord{}, fmt.Errorf("segment %s departure: %w", seg.ID, err)
		}
		arrival, err := segmentTime(seg.UTCArrival, seg.LocalArrival)
		if err != nil {
			return domain.RawRecord{}, fmt.Errorf("segment %s arrival: %w", seg.ID, err)
		}

		onTime := seg.OnTimePerformance
		if onTime <= 0 {
			onTime = -1
		}

		legs = append(legs, domain.RawLeg{
			OriginCode:       seg.FlyFrom,
			OriginCity:       seg.CityFrom,
			DestCode:         seg.FlyTo,
			DestCity:         seg.CityTo,
			Departure:        departure,
			Arrival:          arrival,
			AirlineCode:      seg.Airline,
			AirlineName:      seg.Airline,
			FlightNumber:     seg.Airline + strconv.Itoa(seg.FlightNo),
			CabinClass:       cabinFromFareCategory(seg.FareCategory),
			OperatingCarrier: seg.OperatingCarrier,
			CheckedThrough:   !seg.BagsRecheckRequired,
			OnTimeRate:       onTime,
		})
	}

	return domain.RawRecord{
		ProviderID:      trip.ID,
		Provider:        ProviderName,
		Legs:            legs,
		TotalPrice:      trip.Price,
		Currency:        currency,
		BaseFare:        trip.Price,
		Fees:            bagFees(trip.BagsPrice),
		SeparateTickets: trip.VirtualInterlining,
	}, nil
}

// bagFees maps the bags_price table to itemized fees. Key "hand" is the
// cabin bag; numeric keys are checked bags, of which only the first matters
// for the true-total analysis. A zero price means the bag is included.
func bagFees(bagsPrice map[string]float64) []domain.RawFee {
	var fees []domain.RawFee

	if hand, ok := bagsPrice["hand"]; ok {
		fees = append(fees, domain.RawFee{Type: "carry_on", Amount: hand, Included: hand == 0})
	}
	if checked, ok := bagsPrice["1"]; ok {
		fees = append(fees, domain.RawFee{Type: "checked", Amount: checked, Included: checked == 0})
	}

	return fees
}

// segmentTime builds the segment timestamp in the station's local zone.
// Kiwi has no timezone names, so the zone is reconstructed as a fixed offset
// from the spread between the local and UTC stamps.
func segmentTime(utcStamp, localStamp string) (time.Time, error) {
	utc, err := time.Parse(timeLayout, utcStamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("utc stamp %q: %w", utcStamp, err)
	}

	local, err := time.Parse(timeLayout, localStamp)
	if err != nil {
		// Local stamp is advisory; fall back to plain UTC.
		return utc, nil
	}

	offset := int(local.Sub(utc).Seconds())
	return utc.In(time.FixedZone("", offset)), nil
}

// cabinFromFareCategory maps Kiwi fare categories to cabin names.
func cabinFromFareCategory(category string) string {
	switch category {
	case "C", "BUSINESS":
		return "business"
	case "F", "FIRST":
		return "first"
	case "W", "PREMIUM_ECONOMY":
		return "premium_economy"
	default:
		return "economy"
	}
}
