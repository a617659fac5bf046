package domain

// RiskType identifies a known risk condition on an itinerary.
type RiskType string

// Detectable risk conditions.
const (
	// RiskTightConnection is a layover shorter than the safe minimum.
	RiskTightConnection RiskType = "tight_connection"

	// RiskSelfTransfer is a connection between different marketing carriers
	// with no interline agreement; bags are not checked through.
	RiskSelfTransfer RiskType = "self_transfer"

	// RiskOvernightLayover is a layover spanning local midnight for six
	// hours or more.
	RiskOvernightLayover RiskType = "overnight_layover"

	// RiskRedEye is a departure between 22:00 and 05:59 local time.
	RiskRedEye RiskType = "red_eye"

	// RiskSeparateTickets marks journeys issued as multiple bookings.
	RiskSeparateTickets RiskType = "separate_tickets"

	// RiskAirportChange is a connection requiring a change of airport.
	RiskAirportChange RiskType = "airport_change"
)

// RiskFlag is a detected risk condition with its severity.
type RiskFlag struct {
	// Type is the risk condition
	Type RiskType `json:"type"`

	// Severity is in [0,100]; higher means riskier
	Severity float64 `json:"severity"`

	// Detail is an optional human-readable qualifier (e.g., "45m in ORD")
	Detail string `json:"detail,omitempty"`
}

// HasRisk reports whether the itinerary carries a flag of the given type.
func (it *Itinerary) HasRisk(t RiskType) bool {
	for _, f := range it.RiskFlags {
		if f.Type == t {
			return true
		}
	}
	return false
}

// ScoreBreakdown holds the per-dimension sub-scores for one itinerary.
// Every sub-score lies in [0,100]; higher is better.
type ScoreBreakdown struct {
	Price       float64 `json:"price"`
	Duration    float64 `json:"duration"`
	Stops       float64 `json:"stops"`
	Layover     float64 `json:"layover"`
	Baggage     float64 `json:"baggage"`
	Risk        float64 `json:"risk"`
	Reliability float64 `json:"reliability"`

	// Weights are the profile weights that produced the overall score
	Weights Weights `json:"weights"`
}
