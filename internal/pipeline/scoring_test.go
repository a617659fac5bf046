package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

func newScorer() *Scorer {
	return NewScorer(domain.NewProfileTable(nil), NewRiskDetector(RiskConfig{}))
}

// candidate builds a direct itinerary with the given price and duration.
func candidate(t *testing.T, id string, price float64, durationMin int) domain.Itinerary {
	t.Helper()
	dep := ts(t, "2026-09-15T08:00:00-04:00")
	return domain.Itinerary{
		ID: id,
		Legs: []domain.Leg{{
			Origin:       domain.Airport{Code: "JFK"},
			Destination:  domain.Airport{Code: "LAX"},
			Departure:    dep,
			Arrival:      dep.Add(time.Duration(durationMin) * time.Minute),
			AirlineCode:  "AA",
			FlightNumber: "AA" + id,
		}},
		Price:                domain.Price{Total: price, Currency: "USD", BaseFare: price},
		MinPriceSeen:         price,
		TotalDurationMinutes: durationMin,
		ProviderTrust:        -1,
	}
}

func TestScoreAndRankBounds(t *testing.T) {
	s := newScorer()

	batch := []domain.Itinerary{
		candidate(t, "a", 200, 330),
		candidate(t, "b", 450, 290),
		candidate(t, "c", 320, 410),
	}

	ranked := s.ScoreAndRank(batch, domain.PriorityBalanced)
	require.Len(t, ranked, 3)

	for _, it := range ranked {
		require.NotNil(t, it.Breakdown)
		b := it.Breakdown
		for name, sub := range map[string]float64{
			"price": b.Price, "duration": b.Duration, "stops": b.Stops,
			"layover": b.Layover, "baggage": b.Baggage, "risk": b.Risk,
			"reliability": b.Reliability, "overall": it.Score,
		} {
			assert.GreaterOrEqual(t, sub, 0.0, "%s for %s", name, it.ID)
			assert.LessOrEqual(t, sub, 100.0, "%s for %s", name, it.ID)
		}
	}
}

func TestCheapestScoresExactly100OnPrice(t *testing.T) {
	s := newScorer()

	ranked := s.ScoreAndRank([]domain.Itinerary{
		candidate(t, "cheap", 180, 330),
		candidate(t, "mid", 300, 330),
		candidate(t, "dear", 420, 330),
	}, domain.PriorityCheapest)

	for _, it := range ranked {
		switch it.ID {
		case "cheap":
			assert.InDelta(t, 100.0, it.Breakdown.Price, 1e-9)
		case "dear":
			assert.InDelta(t, 0.0, it.Breakdown.Price, 1e-9)
		case "mid":
			assert.InDelta(t, 50.0, it.Breakdown.Price, 0.01)
		}
	}
}

func TestRankingDeterministicTotalOrder(t *testing.T) {
	s := newScorer()

	batch := []domain.Itinerary{
		candidate(t, "a", 300, 330),
		candidate(t, "b", 300, 330), // identical metrics, ID breaks the tie
		candidate(t, "c", 250, 400),
	}

	first := s.ScoreAndRank(batch, domain.PriorityBalanced)

	ids := func(list []domain.Itinerary) []string {
		out := make([]string, len(list))
		for i, it := range list {
			out[i] = it.ID
		}
		return out
	}

	for run := 0; run < 5; run++ {
		again := s.ScoreAndRank(batch, domain.PriorityBalanced)
		assert.Equal(t, ids(first), ids(again), "run %d", run)
	}

	// Equal-score pair must be ordered by ID.
	posA, posB := -1, -1
	for i, it := range first {
		if it.ID == "a" {
			posA = i
		}
		if it.ID == "b" {
			posB = i
		}
	}
	assert.Less(t, posA, posB)
}

func TestTieBreakByPriceThenDuration(t *testing.T) {
	s := newScorer()

	// Force identical overall scores by making every metric degenerate
	// except the tie-break fields, then overriding scores directly.
	a := candidate(t, "a", 300, 300)
	b := candidate(t, "b", 250, 300)
	c := candidate(t, "c", 250, 280)

	ranked := s.ScoreAndRank([]domain.Itinerary{a, b, c}, domain.PriorityBalanced)
	for i := range ranked {
		ranked[i].Score = 50
	}
	rank(ranked)

	assert.Equal(t, "c", ranked[0].ID) // cheapest + fastest
	assert.Equal(t, "b", ranked[1].ID) // cheapest, slower
	assert.Equal(t, "a", ranked[2].ID)
}

func TestProfileChangesRanking(t *testing.T) {
	s := newScorer()

	batch := []domain.Itinerary{
		candidate(t, "cheap-slow", 150, 600),
		candidate(t, "fast-dear", 500, 250),
	}

	cheapFirst := s.ScoreAndRank(batch, domain.PriorityCheapest)
	assert.Equal(t, "cheap-slow", cheapFirst[0].ID)

	fastFirst := s.ScoreAndRank(batch, domain.PriorityFastest)
	assert.Equal(t, "fast-dear", fastFirst[0].ID)
}

func TestLayoverScoreBands(t *testing.T) {
	tests := []struct {
		name    string
		layover time.Duration
		want    float64
	}{
		{"comfortable 2h", 120 * time.Minute, 100},
		{"short 75m", 75 * time.Minute, 80},
		{"tight 45m", 45 * time.Minute, 30},
		{"long 4h", 240 * time.Minute, 70},
		{"very long 7h", 420 * time.Minute, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := connection(t, tt.layover)
			assert.InDelta(t, tt.want, layoverScore(&it), 0.01)
		})
	}

	t.Run("direct flight scores 100", func(t *testing.T) {
		it := candidate(t, "d", 100, 300)
		assert.InDelta(t, 100.0, layoverScore(&it), 1e-9)
	})

	t.Run("airport change halves and more", func(t *testing.T) {
		it := connection(t, 240*time.Minute)
		it.Legs[1].Origin.Code = "MDW"
		it.Legs[1].GroundTransfer = true
		assert.InDelta(t, 42.0, layoverScore(&it), 0.01) // 70 * 0.6
	})
}

func TestBaggageScore(t *testing.T) {
	tests := []struct {
		name string
		fees []domain.Fee
		want float64
	}{
		{"nothing itemized counts as included", nil, 100},
		{"carry-on extra", []domain.Fee{{Type: domain.FeeCarryOn, Amount: 45}}, 75},
		{"both extra", []domain.Fee{
			{Type: domain.FeeCarryOn, Amount: 45},
			{Type: domain.FeeCheckedBag, Amount: 55},
		}, 50},
		{"both itemized but included", []domain.Fee{
			{Type: domain.FeeCarryOn, Included: true},
			{Type: domain.FeeCheckedBag, Included: true},
		}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Price{Total: 100, Fees: tt.fees}
			assert.InDelta(t, tt.want, baggageScore(p), 1e-9)
		})
	}
}

func TestReliabilityScore(t *testing.T) {
	t.Run("no signal is a neutral 70", func(t *testing.T) {
		it := candidate(t, "x", 100, 300)
		it.ProviderTrust = -1
		assert.InDelta(t, 70.0, reliabilityScore(&it), 1e-9)
	})

	t.Run("trust and on-time raise the score", func(t *testing.T) {
		it := candidate(t, "x", 100, 300)
		it.ProviderTrust = 1.0
		it.Legs[0].OnTimeRate = 0.9
		// 50 + 25 + 22.5
		assert.InDelta(t, 97.5, reliabilityScore(&it), 0.01)
	})

	t.Run("unknown on-time gets half credit", func(t *testing.T) {
		it := candidate(t, "x", 100, 300)
		it.ProviderTrust = 0.8
		// 50 + 20 + 12.5
		assert.InDelta(t, 82.5, reliabilityScore(&it), 0.01)
	})

	t.Run("unconfigured trust gets half credit", func(t *testing.T) {
		it := candidate(t, "x", 100, 300)
		it.ProviderTrust = -1
		it.Legs[0].OnTimeRate = 0.8
		// 50 + 12.5 + 20
		assert.InDelta(t, 82.5, reliabilityScore(&it), 0.01)
	})

	t.Run("configured zero trust is not neutral", func(t *testing.T) {
		it := candidate(t, "x", 100, 300)
		it.ProviderTrust = 0
		// 50 + 0 + 12.5
		assert.InDelta(t, 62.5, reliabilityScore(&it), 0.01)
	})
}

func TestScoreEmptyAndSingleBatch(t *testing.T) {
	s := newScorer()

	assert.Empty(t, s.ScoreAndRank(nil, domain.PriorityBalanced))

	single := s.ScoreAndRank([]domain.Itinerary{candidate(t, "only", 100, 300)}, domain.PriorityBalanced)
	require.Len(t, single, 1)
	// Degenerate batch: relative metrics all score 100.
	assert.InDelta(t, 100.0, single[0].Breakdown.Price, 1e-9)
	assert.InDelta(t, 100.0, single[0].Breakdown.Duration, 1e-9)
	assert.InDelta(t, 100.0, single[0].Breakdown.Stops, 1e-9)
}
