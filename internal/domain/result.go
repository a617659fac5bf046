package domain

import "time"

// RankedResult is the frozen output of one pipeline run for a fingerprint.
// Once cached it is never mutated; per-request fields (CacheHit, latency) are
// set on a shallow copy by the orchestrator.
type RankedResult struct {
	// Itineraries are scored and explained, in rank order
	Itineraries []Itinerary `json:"itineraries"`

	// TotalResults is the number of ranked itineraries
	TotalResults int `json:"totalResults"`

	// DroppedRecords counts raw records rejected by the normalizer
	DroppedRecords int `json:"droppedRecords"`

	// ProvidersQueried lists every provider asked
	ProvidersQueried []string `json:"providersQueried"`

	// ProvidersFailed lists providers that errored or timed out
	ProvidersFailed []string `json:"providersFailed,omitempty"`

	// Warnings annotate degraded results (partial provider failure,
	// all records invalid)
	Warnings []string `json:"warnings,omitempty"`

	// SearchTimeMs is the wall time of the computation or cache lookup
	SearchTimeMs int64 `json:"searchTimeMs"`

	// CacheHit reports whether this response came from the result cache
	CacheHit bool `json:"cacheHit"`

	// ComputedAt is when the pipeline produced this result
	ComputedAt time.Time `json:"computedAt"`
}
