package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymind/travel-decision-engine/internal/adapter/http/response"
	"github.com/skymind/travel-decision-engine/internal/domain"
)

// stubUseCase is a canned implementation of usecase.SearchUseCase.
type stubUseCase struct {
	result  *domain.RankedResult
	err     error
	lastReq domain.SearchRequest
}

func (s *stubUseCase) Search(_ context.Context, req domain.SearchRequest) (*domain.RankedResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// rankedResult builds a result with n itineraries in descending score order.
// Prices rise and durations fall with rank, so the last itinerary is the
// fastest and the first is the cheapest.
func rankedResult(n int) *domain.RankedResult {
	items := make([]domain.Itinerary, 0, n)
	dep := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		duration := 600 - 30*i
		items = append(items, domain.Itinerary{
			ID: fmt.Sprintf("it-%d", i+1),
			Legs: []domain.Leg{{
				Origin:       domain.Airport{Code: "JFK"},
				Destination:  domain.Airport{Code: "LAX"},
				Departure:    dep,
				Arrival:      dep.Add(time.Duration(duration) * time.Minute),
				AirlineCode:  "DL",
				FlightNumber: fmt.Sprintf("DL%d", 100+i),
				CabinClass:   domain.CabinEconomy,
			}},
			Price:                domain.Price{Total: 300 + float64(50*i), Currency: "USD", BaseFare: 250},
			TotalDurationMinutes: duration,
			Score:                90 - float64(i),
			Explanation:          fmt.Sprintf("Option %d.", i+1),
			Breakdown:            &domain.ScoreBreakdown{Price: 80},
			Provider:             "amadeus",
		})
	}
	return &domain.RankedResult{
		Itineraries:      items,
		TotalResults:     n,
		ProvidersQueried: []string{"amadeus", "kiwi"},
		SearchTimeMs:     42,
		ComputedAt:       dep,
	}
}

func setupTestServer(uc *stubUseCase) *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, NewSearchHandler(uc), prometheus.NewRegistry())
	return e
}

func doJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const validSearchBody = `{
	"origins": ["JFK"],
	"destinations": ["LAX"],
	"departureDate": "2026-09-15"
}`

func TestSearchEndpointReturnsRankedPage(t *testing.T) {
	uc := &stubUseCase{result: rankedResult(3)}
	e := setupTestServer(uc)

	rec := doJSON(e, "/api/v1/search", validSearchBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, []string{"JFK"}, resp.Request.Origins)
	assert.Equal(t, "economy", resp.Request.CabinClass)
	assert.Equal(t, 1, resp.Request.Travelers)
	assert.Equal(t, "balanced", resp.Request.Priority)

	assert.Equal(t, 3, resp.Metadata.TotalResults)
	assert.Equal(t, 3, resp.Metadata.ReturnedResults)
	assert.ElementsMatch(t, []string{"amadeus", "kiwi"}, resp.Metadata.ProvidersQueried)

	require.Len(t, resp.Itineraries, 3)
	assert.Equal(t, "it-1", resp.Itineraries[0].ID)
	assert.Equal(t, "Option 1.", resp.Itineraries[0].Explanation)
}

func TestSearchEndpointTruncatesToFirstPage(t *testing.T) {
	uc := &stubUseCase{result: rankedResult(25)}
	e := setupTestServer(uc)

	rec := doJSON(e, "/api/v1/search", validSearchBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 25, resp.Metadata.TotalResults)
	assert.Equal(t, 20, resp.Metadata.ReturnedResults)
	assert.Len(t, resp.Itineraries, 20)
}

func TestSearchEndpointNormalizesRequest(t *testing.T) {
	uc := &stubUseCase{result: rankedResult(1)}
	e := setupTestServer(uc)

	body := `{
		"origins": ["jfk"],
		"destinations": ["lax"],
		"departureDate": "2026-09-15",
		"priority": "cheap"
	}`
	rec := doJSON(e, "/api/v1/search", body)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"JFK"}, uc.lastReq.Origins)
	assert.Equal(t, domain.PriorityCheapest, uc.lastReq.Priority)
	assert.Equal(t, 1, uc.lastReq.Travelers)
}

func TestSearchEndpointMalformedBody(t *testing.T) {
	e := setupTestServer(&stubUseCase{result: rankedResult(1)})

	rec := doJSON(e, "/api/v1/search", `{"origins": [`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var detail response.ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, response.CodeInvalidRequest, detail.Code)
}

func TestSearchEndpointValidationFailure(t *testing.T) {
	e := setupTestServer(&stubUseCase{result: rankedResult(1)})

	rec := doJSON(e, "/api/v1/search", `{"origins": ["JFK"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var detail response.ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, response.CodeValidationError, detail.Code)
	assert.Contains(t, detail.Details, "destinations")
	assert.Contains(t, detail.Details, "departureDate")
}

func TestSearchEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "all providers failed",
			err:        domain.ErrAllProvidersFailed,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   response.CodeServiceUnavailable,
		},
		{
			name:       "deadline exceeded",
			err:        fmt.Errorf("search: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   response.CodeTimeout,
		},
		{
			name:       "request cancelled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   response.CodeTimeout,
		},
		{
			name:       "domain validation",
			err:        fmt.Errorf("%w: origin and destination must be different", domain.ErrInvalidRequest),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeValidationError,
		},
		{
			name:       "unexpected error",
			err:        fmt.Errorf("kaput"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setupTestServer(&stubUseCase{err: tt.err})

			rec := doJSON(e, "/api/v1/search", validSearchBody)
			require.Equal(t, tt.wantStatus, rec.Code)

			var detail response.ErrorDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
			assert.Equal(t, tt.wantCode, detail.Code)
		})
	}
}

func TestExplainEndpointReturnsTopPicks(t *testing.T) {
	uc := &stubUseCase{result: rankedResult(8)}
	e := setupTestServer(uc)

	rec := doJSON(e, "/api/v1/explain", validSearchBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExplainResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Picks, 5)
	assert.Equal(t, 8, resp.Metadata.TotalResults)
	assert.Equal(t, 5, resp.Metadata.ReturnedResults)

	first := resp.Picks[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "it-1", first.ItineraryID)
	assert.Equal(t, CategoryTopPick, first.Category)
	assert.Equal(t, "Option 1.", first.Explanation)
	assert.NotNil(t, first.Breakdown)

	for i, pick := range resp.Picks {
		assert.Equal(t, i+1, pick.Rank)
	}
}

func TestExplainEndpointCategories(t *testing.T) {
	// it-1 is both top pick and cheapest; the fastest sits at the very end
	// of the ranking, outside the picks, so no visible pick gets that label.
	uc := &stubUseCase{result: rankedResult(8)}
	e := setupTestServer(uc)

	rec := doJSON(e, "/api/v1/explain", validSearchBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExplainResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, CategoryTopPick, resp.Picks[0].Category)
	for _, pick := range resp.Picks[1:] {
		assert.Equal(t, CategoryAlternative, pick.Category)
	}
}

func TestExplainEndpointLabelsExtremes(t *testing.T) {
	result := rankedResult(5)
	// Make rank 2 the cheapest and rank 3 the fastest.
	result.Itineraries[1].Price.Total = 120
	result.Itineraries[2].TotalDurationMinutes = 60
	uc := &stubUseCase{result: result}
	e := setupTestServer(uc)

	rec := doJSON(e, "/api/v1/explain", validSearchBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExplainResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Picks, 5)
	assert.Equal(t, CategoryTopPick, resp.Picks[0].Category)
	assert.Equal(t, CategoryCheapest, resp.Picks[1].Category)
	assert.Equal(t, CategoryFastest, resp.Picks[2].Category)
	assert.Equal(t, CategoryAlternative, resp.Picks[3].Category)
}

func TestExplainEndpointCarriesNotes(t *testing.T) {
	result := rankedResult(3)
	result.Itineraries[1].Notes = []string{
		"Also available via: kiwi",
		"Looks $40 cheaper than it-1, but is actually $18 more expensive once bag fees ($58) are added",
	}
	e := setupTestServer(&stubUseCase{result: result})

	rec := doJSON(e, "/api/v1/explain", validSearchBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExplainResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Picks, 3)
	assert.Empty(t, resp.Picks[0].Notes)
	require.Len(t, resp.Picks[1].Notes, 2)
	assert.Contains(t, resp.Picks[1].Notes[1], "more expensive once bag fees")
}

func TestExplainEndpointValidationFailure(t *testing.T) {
	e := setupTestServer(&stubUseCase{result: rankedResult(1)})

	rec := doJSON(e, "/api/v1/explain", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e := setupTestServer(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	e := setupTestServer(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
