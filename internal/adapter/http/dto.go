package http

import (
	"time"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// maxItinerariesPerPage caps how many ranked itineraries a search response
// carries. The full ranking stays in the cache; the API returns the head.
const maxItinerariesPerPage = 20

// maxExplainPicks is how many top-ranked itineraries the explain endpoint
// breaks down.
const maxExplainPicks = 5

// SearchResponseDTO is the response body for POST /api/v1/search.
type SearchResponseDTO struct {
	Request     SearchCriteriaDTO  `json:"request"`
	Metadata    MetadataDTO        `json:"metadata"`
	Itineraries []domain.Itinerary `json:"itineraries"`
}

// SearchCriteriaDTO echoes the normalized search parameters back to the caller.
type SearchCriteriaDTO struct {
	Origins       []string `json:"origins"`
	Destinations  []string `json:"destinations"`
	DepartureDate string   `json:"departureDate"`
	CabinClass    string   `json:"cabinClass"`
	Travelers     int      `json:"travelers"`
	Priority      string   `json:"priority"`
}

// MetadataDTO contains metadata about the search execution.
type MetadataDTO struct {
	TotalResults     int       `json:"totalResults"`
	ReturnedResults  int       `json:"returnedResults"`
	DroppedRecords   int       `json:"droppedRecords"`
	ProvidersQueried []string  `json:"providersQueried"`
	ProvidersFailed  []string  `json:"providersFailed,omitempty"`
	Warnings         []string  `json:"warnings,omitempty"`
	SearchTimeMs     int64     `json:"searchTimeMs"`
	CacheHit         bool      `json:"cacheHit"`
	ComputedAt       time.Time `json:"computedAt"`
}

// ExplainResponseDTO is the response body for POST /api/v1/explain. It carries
// the decision rationale for the top-ranked itineraries without the full leg
// detail of the search response.
type ExplainResponseDTO struct {
	Request  SearchCriteriaDTO `json:"request"`
	Metadata MetadataDTO       `json:"metadata"`
	Picks    []PickDTO         `json:"picks"`
}

// Pick categories. Each pick gets the first category it qualifies for.
const (
	CategoryTopPick     = "top_pick"
	CategoryCheapest    = "cheapest"
	CategoryFastest     = "fastest"
	CategoryAlternative = "alternative"
)

// PickDTO is one explained itinerary in an explain response.
type PickDTO struct {
	// Rank is the 1-based position in the overall ranking
	Rank int `json:"rank"`

	// ItineraryID identifies the itinerary in the matching search response
	ItineraryID string `json:"itineraryId"`

	// Category labels the pick: top_pick, cheapest, fastest, or alternative
	Category string `json:"category"`

	Score           float64 `json:"score"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	DurationMinutes int     `json:"durationMinutes"`
	Stops           int     `json:"stops"`

	// Explanation is the generated rationale text
	Explanation string `json:"explanation"`

	// Breakdown holds the per-dimension sub-scores
	Breakdown *domain.ScoreBreakdown `json:"scoreBreakdown,omitempty"`

	// Risks are the detected risk conditions
	Risks []domain.RiskFlag `json:"risks,omitempty"`

	// Tradeoffs compare this pick against the top-ranked itinerary
	Tradeoffs []domain.Tradeoff `json:"tradeoffs,omitempty"`

	// Notes carries source and hidden-cost annotations
	Notes []string `json:"notes,omitempty"`

	// Advice is the booking-window price recommendation
	Advice *domain.PriceAdvice `json:"priceAdvice,omitempty"`
}
