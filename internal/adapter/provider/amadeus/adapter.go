// Package amadeus adapts Amadeus Flight Offers Search responses to raw
// records. The adapter reads a response fixture from disk instead of calling
// the live API; the wire format is the real one.
package amadeus

import (
	"context"
	"encoding/json"
	"os"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// Adapter implements domain.Provider backed by a response fixture file.
type Adapter struct {
	fixturePath string
}

// NewAdapter creates an Adapter reading responses from the given fixture.
func NewAdapter(fixturePath string) *Adapter {
	return &Adapter{fixturePath: fixturePath}
}

// Name returns the provider's unique identifier.
func (a *Adapter) Name() string {
	return ProviderName
}

// Search implements domain.Provider.Search. Records not matching the
// request's origins, destinations, or departure date are filtered out.
func (a *Adapter) Search(ctx context.Context, req domain.SearchRequest) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.fixturePath)
	if err != nil {
		// Transient by assumption: the live equivalent is a network call.
		return nil, domain.NewRetryableProviderError(ProviderName, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, domain.NewProviderError(ProviderName, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return filterRecords(normalize(resp), req), nil
}

// filterRecords keeps records whose journey matches the request.
func filterRecords(records []domain.RawRecord, req domain.SearchRequest) []domain.RawRecord {
	matched := make([]domain.RawRecord, 0, len(records))
	for _, rec := range records {
		if matchesRequest(rec, req) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// matchesRequest reports whether the record's first departure and final
// arrival fit the request's airport sets and date.
func matchesRequest(rec domain.RawRecord, req domain.SearchRequest) bool {
	if len(rec.Legs) == 0 {
		return false
	}
	first, last := rec.Legs[0], rec.Legs[len(rec.Legs)-1]

	if !containsCode(req.Origins, first.OriginCode) {
		return false
	}
	if !containsCode(req.Destinations, last.DestCode) {
		return false
	}
	if req.DepartureDate != "" && first.Departure.Format("2006-01-02") != req.DepartureDate {
		return false
	}
	return true
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// Ensure Adapter implements domain.Provider at compile time.
var _ domain.Provider = (*Adapter)(nil)
