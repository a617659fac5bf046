package pipeline

import (
	"fmt"

	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/timeutil"
)

// Config carries the pipeline's tunables.
type Config struct {
	// Risk configures the risk detector
	Risk RiskConfig

	// Profiles resolves priority names to scoring weights
	Profiles *domain.ProfileTable

	// TrustWeights maps provider names to trust weights in [0,1]
	TrustWeights map[string]float64

	// TradeoffDepth is how many runners-up get tradeoff statements
	TradeoffDepth int

	// Clock drives the price advisor; nil means real time
	Clock timeutil.Clock
}

// Pipeline composes the decision stages: normalize, dedupe, risk, filter,
// score, explain, advise. One Pipeline is safe for concurrent use; every
// stage is stateless.
type Pipeline struct {
	normalizer *Normalizer
	deduper    *Deduplicator
	risk       *RiskDetector
	scorer     *Scorer
	explainer  *Explainer
	advisor    *PriceAdvisor
	trust      map[string]float64
}

// New creates a Pipeline from the given configuration.
func New(cfg Config) *Pipeline {
	if cfg.Profiles == nil {
		cfg.Profiles = domain.NewProfileTable(nil)
	}
	risk := NewRiskDetector(cfg.Risk)
	return &Pipeline{
		normalizer: NewNormalizer(),
		deduper:    NewDeduplicator(),
		risk:       risk,
		scorer:     NewScorer(cfg.Profiles, risk),
		explainer:  NewExplainer(cfg.TradeoffDepth),
		advisor:    NewPriceAdvisor(cfg.Clock),
		trust:      cfg.TrustWeights,
	}
}

// Output is the pipeline's result for one batch.
type Output struct {
	// Ranked are the scored, explained itineraries in rank order
	Ranked []domain.Itinerary

	// Dropped counts raw records rejected by the normalizer
	Dropped int

	// Filtered counts valid itineraries removed by the request filters
	Filtered int
}

// Run executes the full pipeline over one batch of raw records.
// Invalid records are dropped silently (counted in Output.Dropped); a
// violated invariant after normalization is an ErrPipelineFailure.
func (p *Pipeline) Run(records []domain.RawRecord, req domain.SearchRequest) (Output, error) {
	norm := p.normalizer.Normalize(records, p.trust)

	deduped := p.deduper.Deduplicate(norm.Itineraries)

	// Canonical itineraries must still hold their invariants after merging;
	// anything else is an internal bug, fatal for this computation.
	for i := range deduped {
		if err := deduped[i].Validate(); err != nil {
			return Output{}, fmt.Errorf("%w: post-dedupe invariant violated: %v", domain.ErrPipelineFailure, err)
		}
		deduped[i].RiskFlags = p.risk.Detect(&deduped[i])
	}

	kept := applyFilters(deduped, req.Filters)

	ranked := p.scorer.ScoreAndRank(kept, req.Priority)
	p.explainer.Explain(ranked)

	for i := range ranked {
		ranked[i].Advice = p.advisor.Advise(ranked[i].Legs[0].Departure)
	}

	return Output{
		Ranked:   ranked,
		Dropped:  norm.Dropped,
		Filtered: len(deduped) - len(kept),
	}, nil
}

// applyFilters drops itineraries violating the request's hard constraints.
// Runs after risk detection so the red-eye and overnight filters can reuse
// the detected flags.
func applyFilters(itineraries []domain.Itinerary, f domain.SearchFilters) []domain.Itinerary {
	kept := make([]domain.Itinerary, 0, len(itineraries))
	for i := range itineraries {
		it := &itineraries[i]
		if f.NonstopOnly && !it.IsDirect() {
			continue
		}
		if f.MaxStops != nil && it.Stops > *f.MaxStops {
			continue
		}
		if f.MaxPrice != nil && it.Price.Total > *f.MaxPrice {
			continue
		}
		if f.NoRedEyes && it.HasRisk(domain.RiskRedEye) {
			continue
		}
		if f.NoOvernightLayovers && it.HasRisk(domain.RiskOvernightLayover) {
			continue
		}
		kept = append(kept, *it)
	}
	return kept
}
