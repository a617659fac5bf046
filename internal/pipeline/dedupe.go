package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// Deduplicator merges itineraries that represent the same physical journey
// across sources, keeping one canonical representative per equivalence class.
type Deduplicator struct{}

// NewDeduplicator creates a Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate partitions the batch into equivalence classes and selects one
// representative per class. Selection order: lowest total price, then highest
// provider trust weight, then first encountered. The representative records
// the minimum price seen across its class and which other sources offered it.
// The operation is idempotent and deterministic.
func (d *Deduplicator) Deduplicate(itineraries []domain.Itinerary) []domain.Itinerary {
	if len(itineraries) <= 1 {
		return itineraries
	}

	type group struct {
		members []int // indices into itineraries, in encounter order
	}

	groups := make(map[string]*group)
	order := make([]string, 0, len(itineraries))

	for i := range itineraries {
		sig := signature(&itineraries[i])
		g, ok := groups[sig]
		if !ok {
			g = &group{}
			groups[sig] = g
			order = append(order, sig)
		}
		g.members = append(g.members, i)
	}

	result := make([]domain.Itinerary, 0, len(order))
	for _, sig := range order {
		g := groups[sig]
		if len(g.members) == 1 {
			result = append(result, itineraries[g.members[0]])
			continue
		}
		result = append(result, d.merge(itineraries, g.members))
	}
	return result
}

// merge selects the representative of one equivalence class and folds the
// duplicates' price and source information into it.
func (d *Deduplicator) merge(itineraries []domain.Itinerary, members []int) domain.Itinerary {
	// Stable sort keeps first-encountered as the final tie-break.
	ranked := make([]int, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(a, b int) bool {
		ia, ib := &itineraries[ranked[a]], &itineraries[ranked[b]]
		if ia.Price.Total != ib.Price.Total {
			return ia.Price.Total < ib.Price.Total
		}
		return ia.ProviderTrust > ib.ProviderTrust
	})

	best := itineraries[ranked[0]]

	minPrice := best.MinPriceSeen
	var otherProviders []string
	seen := map[string]bool{best.Provider: true}
	for _, idx := range ranked[1:] {
		dup := &itineraries[idx]
		if dup.MinPriceSeen < minPrice {
			minPrice = dup.MinPriceSeen
		}
		if !seen[dup.Provider] {
			seen[dup.Provider] = true
			otherProviders = append(otherProviders, dup.Provider)
		}
	}

	best.MinPriceSeen = minPrice
	if len(otherProviders) > 0 {
		note := "Also available via: " + strings.Join(otherProviders, ", ")
		if !containsNote(best.Notes, note) {
			best.Notes = append(best.Notes, note)
		}
	}
	return best
}

// signature computes the equivalence key of an itinerary: the ordered
// sequence of (flight number, departure rounded to the minute) across legs.
// Same physical journey yields the same signature regardless of provider.
func signature(it *domain.Itinerary) string {
	parts := make([]string, len(it.Legs))
	for i, leg := range it.Legs {
		dep := leg.Departure.UTC().Truncate(time.Minute)
		parts[i] = fmt.Sprintf("%s@%s", leg.FlightNumber, dep.Format("200601021504"))
	}
	return strings.Join(parts, "|")
}

func containsNote(notes []string, note string) bool {
	for _, n := range notes {
		if n == note {
			return true
		}
	}
	return false
}
