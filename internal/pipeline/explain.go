package pipeline

import (
	"fmt"
	"strings"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// strongScoreThreshold is the sub-score level that counts as a highlight.
const strongScoreThreshold = 90

// DefaultTradeoffDepth is how many runners-up get a tradeoff against rank 1.
const DefaultTradeoffDepth = 3

// Explainer generates rationale text, pairwise tradeoffs against the
// top-ranked itinerary, and the hidden-cost (baggage) analysis.
type Explainer struct {
	tradeoffDepth int
}

// NewExplainer creates an Explainer. depth controls how many of the
// runners-up get tradeoff statements; non-positive means the default.
func NewExplainer(depth int) *Explainer {
	if depth <= 0 {
		depth = DefaultTradeoffDepth
	}
	return &Explainer{tradeoffDepth: depth}
}

// Explain annotates a ranked batch in place with explanations, tradeoffs,
// and hidden-cost warnings. It must run after scoring, on the final order.
func (e *Explainer) Explain(ranked []domain.Itinerary) {
	if len(ranked) == 0 {
		return
	}

	cheapest := &ranked[0]
	for i := range ranked {
		if ranked[i].Price.Total < cheapest.Price.Total {
			cheapest = &ranked[i]
		}
	}

	e.annotateHiddenCosts(ranked)

	for i := range ranked {
		ranked[i].Explanation = e.explanation(&ranked[i], cheapest)
	}

	// Tradeoffs: top-ranked vs each of the next N.
	top := &ranked[0]
	depth := e.tradeoffDepth
	if depth > len(ranked)-1 {
		depth = len(ranked) - 1
	}
	for i := 1; i <= depth; i++ {
		ranked[i].Tradeoffs = append(ranked[i].Tradeoffs, e.tradeoff(&ranked[i], top))
	}
}

// explanation builds the rationale sentence for one itinerary: highlights
// from strong sub-scores, then a caveat per risk flag.
func (e *Explainer) explanation(it *domain.Itinerary, cheapest *domain.Itinerary) string {
	var parts []string

	if it.ID == cheapest.ID {
		parts = append(parts, "cheapest option")
	} else if diff := it.Price.Total - cheapest.Price.Total; diff > 0 {
		parts = append(parts, fmt.Sprintf("$%.0f more than the cheapest", diff))
	}

	if it.IsDirect() {
		parts = append(parts, "direct flight")
	} else {
		parts = append(parts, fmt.Sprintf("%d stop(s)", it.Stops))
	}

	if b := it.Breakdown; b != nil {
		if b.Duration >= strongScoreThreshold {
			parts = append(parts, "among the fastest")
		}
		if b.Layover >= strongScoreThreshold && !it.IsDirect() {
			parts = append(parts, "comfortable connection times")
		}
		if b.Baggage >= strongScoreThreshold {
			parts = append(parts, "bags included")
		}
		if b.Reliability >= strongScoreThreshold {
			parts = append(parts, "reliable operator")
		}
	}

	for _, flag := range it.RiskFlags {
		parts = append(parts, "caveat: "+riskCaveat(flag))
	}

	sentence := strings.Join(parts, ", ")
	if sentence == "" {
		return ""
	}
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}

// riskCaveat renders one risk flag as a short caveat phrase.
func riskCaveat(flag domain.RiskFlag) string {
	label := strings.ReplaceAll(string(flag.Type), "_", " ")
	if flag.Detail != "" {
		return fmt.Sprintf("%s (%s)", label, flag.Detail)
	}
	return label
}

// tradeoff builds the structured comparison of it against the top-ranked
// itinerary and renders it as a sentence.
func (e *Explainer) tradeoff(it, top *domain.Itinerary) domain.Tradeoff {
	t := domain.Tradeoff{
		AgainstID:            top.ID,
		PriceDelta:           top.Price.Total - it.Price.Total,
		DurationDeltaMinutes: top.TotalDurationMinutes - it.TotalDurationMinutes,
		StopsDelta:           top.Stops - it.Stops,
	}
	t.Sentence = renderTradeoff(t)
	return t
}

// renderTradeoff turns the deltas into a human sentence from the
// perspective of switching to the top-ranked pick.
func renderTradeoff(t domain.Tradeoff) string {
	priceUp := t.PriceDelta > 0.5
	priceDown := t.PriceDelta < -0.5
	faster := t.DurationDeltaMinutes < 0
	slower := t.DurationDeltaMinutes > 0

	switch {
	case priceUp && faster:
		return fmt.Sprintf("Pay $%.0f more for the top pick to save %s",
			t.PriceDelta, domain.FormatMinutes(-t.DurationDeltaMinutes))
	case priceUp && slower:
		return fmt.Sprintf("The top pick costs $%.0f more and takes %s longer, but scores higher overall",
			t.PriceDelta, domain.FormatMinutes(t.DurationDeltaMinutes))
	case priceUp:
		return fmt.Sprintf("Pay $%.0f more for the top pick at similar travel time", t.PriceDelta)
	case priceDown && slower:
		return fmt.Sprintf("Save $%.0f over the top pick by accepting %s longer travel time",
			-t.PriceDelta, domain.FormatMinutes(t.DurationDeltaMinutes))
	case priceDown:
		return fmt.Sprintf("Save $%.0f over the top pick with similar travel time", -t.PriceDelta)
	case faster:
		return fmt.Sprintf("The top pick saves %s at a similar price", domain.FormatMinutes(-t.DurationDeltaMinutes))
	case slower:
		return fmt.Sprintf("This option saves %s over the top pick at a similar price", domain.FormatMinutes(t.DurationDeltaMinutes))
	default:
		return "Comparable price and travel time to the top pick"
	}
}

// annotateHiddenCosts computes true totals (display price plus excluded bag
// fees) and warns when an itinerary's lower display price hides a higher
// true total than some rival. Comparisons use true totals on both sides,
// never a mix.
func (e *Explainer) annotateHiddenCosts(ranked []domain.Itinerary) {
	trueTotals := make([]float64, len(ranked))
	for i := range ranked {
		trueTotals[i] = ranked[i].Price.TrueTotal()
	}

	for i := range ranked {
		it := &ranked[i]
		hidden := trueTotals[i] - it.Price.Total
		if hidden <= 0 {
			continue
		}

		for j := range ranked {
			if i == j {
				continue
			}
			rival := &ranked[j]
			if it.Price.Total < rival.Price.Total && trueTotals[i] > trueTotals[j] {
				note := fmt.Sprintf(
					"Looks $%.0f cheaper than %s, but is actually $%.0f more expensive once bag fees ($%.0f) are added",
					rival.Price.Total-it.Price.Total, rival.ID, trueTotals[i]-trueTotals[j], hidden)
				if !containsNote(it.Notes, note) {
					it.Notes = append(it.Notes, note)
				}
				break
			}
		}
	}
}
