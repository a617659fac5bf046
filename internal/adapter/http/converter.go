package http

import (
	"github.com/skymind/travel-decision-engine/internal/domain"
)

// ToDomainRequest converts a validated request body to a domain search
// request with defaults applied.
func ToDomainRequest(r *SearchRequestBody) domain.SearchRequest {
	req := domain.SearchRequest{
		Origins:       r.Origins,
		Destinations:  r.Destinations,
		DepartureDate: r.DepartureDate,
		CabinClass:    domain.CabinClass(r.CabinClass),
		Travelers:     r.Travelers,
		Priority:      r.Priority,
	}

	if r.Filters != nil {
		req.Filters = domain.SearchFilters{
			MaxStops:            r.Filters.MaxStops,
			MaxPrice:            r.Filters.MaxPrice,
			NonstopOnly:         r.Filters.NonstopOnly,
			NoRedEyes:           r.Filters.NoRedEyes,
			NoOvernightLayovers: r.Filters.NoOvernightLayovers,
		}
	}

	req.SetDefaults()
	return req
}

// NewSearchResponse builds the search response from a ranked result,
// truncated to the first page.
func NewSearchResponse(req domain.SearchRequest, result *domain.RankedResult) *SearchResponseDTO {
	page := result.Itineraries
	if len(page) > maxItinerariesPerPage {
		page = page[:maxItinerariesPerPage]
	}

	return &SearchResponseDTO{
		Request:     toCriteriaDTO(req),
		Metadata:    toMetadataDTO(result, len(page)),
		Itineraries: page,
	}
}

// NewExplainResponse builds the explain response from a ranked result,
// covering the top picks only.
func NewExplainResponse(req domain.SearchRequest, result *domain.RankedResult) *ExplainResponseDTO {
	picks := result.Itineraries
	if len(picks) > maxExplainPicks {
		picks = picks[:maxExplainPicks]
	}

	cheapest, fastest := extremaIndexes(result.Itineraries)

	resp := &ExplainResponseDTO{
		Request:  toCriteriaDTO(req),
		Metadata: toMetadataDTO(result, len(picks)),
		Picks:    make([]PickDTO, 0, len(picks)),
	}

	for i, it := range picks {
		resp.Picks = append(resp.Picks, PickDTO{
			Rank:            i + 1,
			ItineraryID:     it.ID,
			Category:        categorize(i, cheapest, fastest),
			Score:           it.Score,
			Price:           it.Price.Total,
			Currency:        it.Price.Currency,
			DurationMinutes: it.TotalDurationMinutes,
			Stops:           it.Stops,
			Explanation:     it.Explanation,
			Breakdown:       it.Breakdown,
			Risks:           it.RiskFlags,
			Tradeoffs:       it.Tradeoffs,
			Notes:           it.Notes,
			Advice:          it.Advice,
		})
	}

	return resp
}

func toCriteriaDTO(req domain.SearchRequest) SearchCriteriaDTO {
	return SearchCriteriaDTO{
		Origins:       req.Origins,
		Destinations:  req.Destinations,
		DepartureDate: req.DepartureDate,
		CabinClass:    string(req.CabinClass),
		Travelers:     req.Travelers,
		Priority:      req.Priority,
	}
}

func toMetadataDTO(result *domain.RankedResult, returned int) MetadataDTO {
	return MetadataDTO{
		TotalResults:     result.TotalResults,
		ReturnedResults:  returned,
		DroppedRecords:   result.DroppedRecords,
		ProvidersQueried: result.ProvidersQueried,
		ProvidersFailed:  result.ProvidersFailed,
		Warnings:         result.Warnings,
		SearchTimeMs:     result.SearchTimeMs,
		CacheHit:         result.CacheHit,
		ComputedAt:       result.ComputedAt,
	}
}

// extremaIndexes finds the cheapest (by true total) and fastest itineraries
// across the whole ranking, so an explain pick is labeled against the full
// result set rather than just the visible picks.
func extremaIndexes(items []domain.Itinerary) (cheapest, fastest int) {
	cheapest, fastest = -1, -1
	for i, it := range items {
		if cheapest < 0 || it.Price.TrueTotal() < items[cheapest].Price.TrueTotal() {
			cheapest = i
		}
		if fastest < 0 || it.TotalDurationMinutes < items[fastest].TotalDurationMinutes {
			fastest = i
		}
	}
	return cheapest, fastest
}

// categorize labels a pick with the first category it qualifies for.
func categorize(idx, cheapest, fastest int) string {
	switch {
	case idx == 0:
		return CategoryTopPick
	case idx == cheapest:
		return CategoryCheapest
	case idx == fastest:
		return CategoryFastest
	default:
		return CategoryAlternative
	}
}
