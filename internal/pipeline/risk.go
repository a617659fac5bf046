package pipeline

import (
	"fmt"
	"time"

	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/timeutil"
)

// RiskConfig holds the tunable thresholds and aggregation weights of the
// risk detector. Zero values fall back to defaults at construction.
type RiskConfig struct {
	// TightConnectionMinutes is the layover length below which a connection
	// counts as tight.
	TightConnectionMinutes int

	// OvernightMinHours is the minimum length of a midnight-spanning layover
	// to count as overnight.
	OvernightMinHours int

	// Weights scale each flag's severity when computing the aggregate risk
	// sub-score.
	Weights map[domain.RiskType]float64
}

// Default risk thresholds.
const (
	DefaultTightConnectionMinutes = 90
	DefaultOvernightMinHours      = 6
)

// Fixed severities for the non-graduated flags.
const (
	severitySelfTransfer    = 80
	severitySeparateTickets = 70
	severityAirportChange   = 50
	severityOvernight       = 40
	severityRedEye          = 30
)

// defaultRiskWeights reproduce the established penalty table when combined
// with the default severities: self-transfer costs 40 points, separate
// tickets 35, airport change 20, a 45-minute connection 15, overnight 10,
// red-eye 7.5.
var defaultRiskWeights = map[domain.RiskType]float64{
	domain.RiskSelfTransfer:     0.50,
	domain.RiskSeparateTickets:  0.50,
	domain.RiskAirportChange:    0.40,
	domain.RiskTightConnection:  0.30,
	domain.RiskOvernightLayover: 0.25,
	domain.RiskRedEye:           0.25,
}

// RiskDetector scans a single itinerary for known risk conditions.
// Detection is a pure function; all rules are independently evaluable and
// flags are not mutually exclusive.
type RiskDetector struct {
	tightConnection time.Duration
	overnightMin    time.Duration
	weights         map[domain.RiskType]float64
}

// NewRiskDetector creates a detector with the given configuration.
func NewRiskDetector(cfg RiskConfig) *RiskDetector {
	if cfg.TightConnectionMinutes <= 0 {
		cfg.TightConnectionMinutes = DefaultTightConnectionMinutes
	}
	if cfg.OvernightMinHours <= 0 {
		cfg.OvernightMinHours = DefaultOvernightMinHours
	}
	weights := cfg.Weights
	if weights == nil {
		weights = defaultRiskWeights
	}
	return &RiskDetector{
		tightConnection: time.Duration(cfg.TightConnectionMinutes) * time.Minute,
		overnightMin:    time.Duration(cfg.OvernightMinHours) * time.Hour,
		weights:         weights,
	}
}

// Detect returns the risk flags for one itinerary.
func (d *RiskDetector) Detect(it *domain.Itinerary) []domain.RiskFlag {
	var flags []domain.RiskFlag

	flags = append(flags, d.connectionFlags(it)...)
	flags = append(flags, d.redEyeFlags(it)...)

	if it.SeparateTickets {
		flags = append(flags, domain.RiskFlag{
			Type:     domain.RiskSeparateTickets,
			Severity: severitySeparateTickets,
			Detail:   "issued as multiple tickets, not through-checked",
		})
	}

	return flags
}

// connectionFlags evaluates every layover for tight-connection, overnight,
// airport-change, and self-transfer conditions.
func (d *RiskDetector) connectionFlags(it *domain.Itinerary) []domain.RiskFlag {
	var flags []domain.RiskFlag

	for i := 1; i < len(it.Legs); i++ {
		prev, next := it.Legs[i-1], it.Legs[i]
		gap := next.Departure.Sub(prev.Arrival)

		if gap < d.tightConnection {
			flags = append(flags, domain.RiskFlag{
				Type:     domain.RiskTightConnection,
				Severity: tightSeverity(gap, d.tightConnection),
				Detail:   fmt.Sprintf("%s in %s", domain.FormatMinutes(int(gap.Minutes())), prev.Destination.Code),
			})
		}

		if d.isOvernight(prev, gap) {
			flags = append(flags, domain.RiskFlag{
				Type:     domain.RiskOvernightLayover,
				Severity: severityOvernight,
				Detail:   fmt.Sprintf("%s overnight in %s", domain.FormatMinutes(int(gap.Minutes())), prev.Destination.Code),
			})
		}

		if prev.Destination.Code != next.Origin.Code {
			flags = append(flags, domain.RiskFlag{
				Type:     domain.RiskAirportChange,
				Severity: severityAirportChange,
				Detail:   fmt.Sprintf("%s to %s", prev.Destination.Code, next.Origin.Code),
			})
		}

		if next.SelfTransfer {
			flags = append(flags, domain.RiskFlag{
				Type:     domain.RiskSelfTransfer,
				Severity: severitySelfTransfer,
				Detail:   fmt.Sprintf("%s to %s connection is not protected", prev.AirlineCode, next.AirlineCode),
			})
		}
	}

	return flags
}

// redEyeFlags checks each leg's departure against the local 22:00-05:59
// window. At most one flag is emitted per itinerary.
func (d *RiskDetector) redEyeFlags(it *domain.Itinerary) []domain.RiskFlag {
	for _, leg := range it.Legs {
		local := localTime(leg.Departure, leg.Origin.Timezone)
		hour := local.Hour()
		if hour >= 22 || hour < 6 {
			return []domain.RiskFlag{{
				Type:     domain.RiskRedEye,
				Severity: severityRedEye,
				Detail:   fmt.Sprintf("%s departs %s at %s local", leg.FlightNumber, leg.Origin.Code, local.Format("15:04")),
			}}
		}
	}
	return nil
}

// isOvernight reports whether a layover spans local midnight at the layover
// airport and lasts at least the configured minimum.
func (d *RiskDetector) isOvernight(arrivingLeg domain.Leg, gap time.Duration) bool {
	if gap < d.overnightMin {
		return false
	}
	arrival := localTime(arrivingLeg.Arrival, arrivingLeg.Destination.Timezone)
	departure := arrival.Add(gap)
	return departure.YearDay() != arrival.YearDay() || departure.Year() != arrival.Year()
}

// RiskScore aggregates active flags into the risk sub-score:
// 100 minus the weighted severity sum, clamped to [0,100].
func (d *RiskDetector) RiskScore(flags []domain.RiskFlag) float64 {
	score := 100.0
	for _, f := range flags {
		w, ok := d.weights[f.Type]
		if !ok {
			w = 0.25
		}
		score -= w * f.Severity
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// tightSeverity grows linearly as the margin shrinks: a zero-minute
// connection scores 100, one at the threshold scores 0.
func tightSeverity(gap, threshold time.Duration) float64 {
	if gap <= 0 {
		return 100
	}
	sev := 100 * float64(threshold-gap) / float64(threshold)
	if sev > 100 {
		return 100
	}
	if sev < 0 {
		return 0
	}
	return sev
}

// localTime converts t to the airport's IANA timezone when known, falling
// back to the timestamp's own offset.
func localTime(t time.Time, tz string) time.Time {
	if tz == "" {
		return t
	}
	loc, err := timeutil.GetLocation(tz)
	if err != nil {
		return t
	}
	return t.In(loc)
}
