package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// Scorer computes the seven-dimensional score breakdown and overall score
// for a batch of itineraries under one priority profile.
//
// Scoring is a two-phase computation: one pass over the batch collects the
// price/duration/stops extrema, then each itinerary is scored independently
// against them. The extrema live only for the batch.
type Scorer struct {
	profiles *domain.ProfileTable
	risk     *RiskDetector
}

// NewScorer creates a Scorer using the given profile table and risk detector
// (the detector supplies the risk sub-score aggregation).
func NewScorer(profiles *domain.ProfileTable, risk *RiskDetector) *Scorer {
	return &Scorer{profiles: profiles, risk: risk}
}

// extrema holds the batch-relative normalization bounds.
type extrema struct {
	minPrice, maxPrice       float64
	minDuration, maxDuration int
	minStops, maxStops       int
}

// collectExtrema is the first phase: one full pass over the batch.
func collectExtrema(batch []domain.Itinerary) extrema {
	ex := extrema{
		minPrice:    math.MaxFloat64,
		minDuration: math.MaxInt,
		minStops:    math.MaxInt,
	}
	for i := range batch {
		it := &batch[i]
		if it.Price.Total < ex.minPrice {
			ex.minPrice = it.Price.Total
		}
		if it.Price.Total > ex.maxPrice {
			ex.maxPrice = it.Price.Total
		}
		if it.TotalDurationMinutes < ex.minDuration {
			ex.minDuration = it.TotalDurationMinutes
		}
		if it.TotalDurationMinutes > ex.maxDuration {
			ex.maxDuration = it.TotalDurationMinutes
		}
		if it.Stops < ex.minStops {
			ex.minStops = it.Stops
		}
		if it.Stops > ex.maxStops {
			ex.maxStops = it.Stops
		}
	}
	return ex
}

// ScoreAndRank scores every itinerary in the batch under the given priority
// and returns them sorted into rank order. The input slice is not mutated.
func (s *Scorer) ScoreAndRank(batch []domain.Itinerary, priority string) []domain.Itinerary {
	if len(batch) == 0 {
		return batch
	}

	weights := s.profiles.Lookup(priority)
	ex := collectExtrema(batch)

	result := make([]domain.Itinerary, len(batch))
	copy(result, batch)

	for i := range result {
		s.scoreOne(&result[i], ex, weights)
	}

	rank(result)
	return result
}

// rank sorts scored itineraries into the total order: score desc, price asc,
// duration asc, ID asc.
func rank(items []domain.Itinerary) {
	sort.SliceStable(items, func(a, b int) bool {
		ia, ib := &items[a], &items[b]
		if ia.Score != ib.Score {
			return ia.Score > ib.Score
		}
		if ia.Price.Total != ib.Price.Total {
			return ia.Price.Total < ib.Price.Total
		}
		if ia.TotalDurationMinutes != ib.TotalDurationMinutes {
			return ia.TotalDurationMinutes < ib.TotalDurationMinutes
		}
		return ia.ID < ib.ID
	})
}

// scoreOne is the second phase: pure per-itinerary scoring against the
// batch extrema.
func (s *Scorer) scoreOne(it *domain.Itinerary, ex extrema, weights domain.Weights) {
	breakdown := domain.ScoreBreakdown{
		Price:       relativeScore(it.Price.Total, ex.minPrice, ex.maxPrice),
		Duration:    relativeScore(float64(it.TotalDurationMinutes), float64(ex.minDuration), float64(ex.maxDuration)),
		Stops:       relativeScore(float64(it.Stops), float64(ex.minStops), float64(ex.maxStops)),
		Layover:     layoverScore(it),
		Baggage:     baggageScore(it.Price),
		Risk:        s.risk.RiskScore(it.RiskFlags),
		Reliability: reliabilityScore(it),
		Weights:     weights,
	}

	overall := weights.Price*breakdown.Price +
		weights.Duration*breakdown.Duration +
		weights.Stops*breakdown.Stops +
		weights.Layover*breakdown.Layover +
		weights.Baggage*breakdown.Baggage +
		weights.Risk*breakdown.Risk +
		weights.Reliability*breakdown.Reliability

	it.Breakdown = &breakdown
	it.Score = round2(overall)
}

// relativeScore normalizes a raw metric against the batch extrema: the best
// (minimum) value scores 100, the worst scores 0. A degenerate batch where
// min == max scores 100 for everyone.
func relativeScore(value, min, max float64) float64 {
	if max == min {
		return 100
	}
	return round2(100 * (1 - (value-min)/(max-min)))
}

// layoverScore rates connection comfort. Direct flights score 100. Each
// layover is banded by length, then penalized for overnight stays and
// airport changes; the itinerary score is the average across layovers.
func layoverScore(it *domain.Itinerary) float64 {
	gaps := it.Layovers()
	if len(gaps) == 0 {
		return 100
	}

	total := 0.0
	for i, gap := range gaps {
		minutes := gap.Minutes()

		var score float64
		switch {
		case minutes >= 90 && minutes <= 180:
			score = 100 // comfortable
		case minutes >= 60 && minutes < 90:
			score = 80
		case minutes < 60:
			score = 30
		case minutes > 180 && minutes <= 360:
			score = 70
		default:
			score = 40 // 6h+
		}

		if layoverHasFlag(it, i, domain.RiskOvernightLayover) {
			score *= 0.5
		}
		if layoverHasFlag(it, i, domain.RiskAirportChange) {
			score *= 0.6
		}
		total += score
	}

	return round2(total / float64(len(gaps)))
}

// layoverHasFlag reports whether the i-th connection carries the given risk.
// Flag details name the layover airport, so match on the arriving leg's
// destination code.
func layoverHasFlag(it *domain.Itinerary, layoverIdx int, t domain.RiskType) bool {
	if layoverIdx+1 >= len(it.Legs) {
		return false
	}
	switch t {
	case domain.RiskOvernightLayover:
		// Re-derive cheaply: flags carry no index, but an overnight flag plus
		// a 6h+ gap at this connection is an unambiguous match.
		if !it.HasRisk(t) {
			return false
		}
		return it.Legs[layoverIdx+1].Departure.Sub(it.Legs[layoverIdx].Arrival) >= 6*time.Hour
	case domain.RiskAirportChange:
		return it.Legs[layoverIdx].Destination.Code != it.Legs[layoverIdx+1].Origin.Code
	default:
		return false
	}
}

// baggageScore gives full credit when both carry-on and checked bags are in
// the display price and partial credit otherwise.
func baggageScore(p domain.Price) float64 {
	score := 50.0
	if p.IncludesBag(domain.FeeCarryOn) {
		score += 25
	}
	if p.IncludesBag(domain.FeeCheckedBag) {
		score += 25
	}
	if score > 100 {
		return 100
	}
	return score
}

// reliabilityScore reflects the operator-trust prior. With no signal at all
// the score is a neutral 70. Otherwise provider trust and average on-time
// performance each contribute up to 25 points on a base of 50; a missing
// signal on either side contributes half credit. A negative trust means the
// provider has no configured weight at all.
func reliabilityScore(it *domain.Itinerary) float64 {
	onTime, hasOnTime := averageOnTime(it.Legs)
	hasTrust := it.ProviderTrust >= 0
	if !hasTrust && !hasOnTime {
		return 70
	}

	score := 50.0
	if hasTrust {
		trust := it.ProviderTrust
		if trust > 1 {
			trust = 1
		}
		score += 25 * trust
	} else {
		score += 12.5
	}
	if hasOnTime {
		score += 25 * onTime
	} else {
		score += 12.5
	}
	if score > 100 {
		return 100
	}
	return round2(score)
}

// averageOnTime averages the known per-leg on-time rates.
func averageOnTime(legs []domain.Leg) (float64, bool) {
	sum, n := 0.0, 0
	for _, leg := range legs {
		if leg.OnTimeRate > 0 {
			sum += leg.OnTimeRate
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
