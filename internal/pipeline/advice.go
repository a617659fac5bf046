package pipeline

import (
	"time"

	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/timeutil"
)

// Advice labels.
const (
	AdviceBuyNow  = "buy_now"
	AdviceWait    = "wait"
	AdviceMonitor = "monitor"
)

// PriceAdvisor produces a heuristic buy-now/wait/monitor recommendation from
// the booking window, departure weekday, and season. It uses no historical
// data, only well-known fare-curve rules of thumb.
type PriceAdvisor struct {
	clock timeutil.Clock
}

// NewPriceAdvisor creates a PriceAdvisor using the given clock.
func NewPriceAdvisor(clock timeutil.Clock) *PriceAdvisor {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &PriceAdvisor{clock: clock}
}

// Advise returns the recommendation for an itinerary departing at the given
// time.
func (a *PriceAdvisor) Advise(departure time.Time) *domain.PriceAdvice {
	daysOut := int(departure.Sub(a.clock.Now()).Hours() / 24)
	weekday := departure.Weekday()
	month := departure.Month()

	advice := AdviceMonitor
	confidence := 0.5
	change := 0.0
	var factors []string

	// Booking-window rules.
	switch {
	case daysOut < 14:
		advice = AdviceBuyNow
		confidence = 0.9
		change = 50
		factors = append(factors, "last-minute booking, prices rising daily")
	case daysOut <= 21:
		advice = AdviceBuyNow
		confidence = 0.8
		change = 20
		factors = append(factors, "entering the high-price window (under 21 days)")
	case daysOut <= 60:
		factors = append(factors, "standard booking window")
		confidence = 0.6
	case daysOut > 90:
		advice = AdviceWait
		confidence = 0.75
		change = -30
		factors = append(factors, "booking early, fares typically drop around 60 days out")
	}

	// Weekday rules.
	switch weekday {
	case time.Friday, time.Sunday:
		factors = append(factors, "weekend departure premium")
		if advice == AdviceMonitor {
			advice = AdviceWait
			change -= 15
			factors = append(factors, "flying Tuesday or Wednesday could save around 10%")
		}
	case time.Tuesday, time.Wednesday:
		factors = append(factors, "mid-week departure savings")
		if advice == AdviceMonitor {
			advice = AdviceBuyNow
		}
	}

	// Seasonality (northern hemisphere peaks).
	switch month {
	case time.June, time.July, time.August, time.December:
		factors = append(factors, "high-season demand")
		if advice == AdviceWait {
			advice = AdviceMonitor
			change += 10
		}
	}

	if confidence > 0.95 {
		confidence = 0.95
	}

	return &domain.PriceAdvice{
		Advice:          advice,
		Confidence:      confidence,
		PredictedChange: change,
		Factors:         factors,
	}
}
