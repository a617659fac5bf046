// Package integration verifies that the engine's layers work together:
// HTTP handlers, the search use case, the decision pipeline, and the
// fixture-backed provider adapters.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	enginehttp "github.com/skymind/travel-decision-engine/internal/adapter/http"
	"github.com/skymind/travel-decision-engine/internal/adapter/provider/amadeus"
	"github.com/skymind/travel-decision-engine/internal/adapter/provider/kiwi"
	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/retry"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/timeutil"
	"github.com/skymind/travel-decision-engine/internal/usecase"
	"github.com/skymind/travel-decision-engine/test/testutil"
)

// fixtureDate is the departure date present in both provider fixtures.
const fixtureDate = "2026-09-15"

// testClock pins the advisor and cache clock so assertions do not drift.
const testClock = "2026-09-01T12:00:00Z"

// TestServer wraps an Echo instance and provides request helpers.
type TestServer struct {
	Echo *echo.Echo
}

// NewTestServer creates a test server over the given use case.
func NewTestServer(uc usecase.SearchUseCase) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	handler := enginehttp.NewSearchHandler(uc)
	enginehttp.RegisterRoutes(e, handler, prometheus.NewRegistry())

	return &TestServer{Echo: e}
}

// NewUseCase builds a use case over the given providers with fast retries
// and a pinned clock.
func NewUseCase(providers ...domain.Provider) usecase.SearchUseCase {
	return usecase.NewSearchUseCase(providers, usecase.Config{
		Retry: retry.Config{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   1.0,
			RetryIf:      domain.IsRetryable,
		},
		Clock: timeutil.NewMockClockFromString(testClock),
	})
}

// NewFixtureUseCase builds a use case over the real fixture-backed adapters.
func NewFixtureUseCase(t *testing.T) usecase.SearchUseCase {
	t.Helper()
	return NewUseCase(
		amadeus.NewAdapter(testutil.FixturePath(t, "amadeus.json")),
		kiwi.NewAdapter(testutil.FixturePath(t, "kiwi.json")),
	)
}

// NewFixtureServer builds a test server over the fixture-backed adapters.
func NewFixtureServer(t *testing.T) *TestServer {
	t.Helper()
	return NewTestServer(NewFixtureUseCase(t))
}

// Response is a decoded test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(method, path string, body interface{}) Response {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, req)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// Search posts a body to the search endpoint.
func (ts *TestServer) Search(body interface{}) Response {
	return ts.Do(http.MethodPost, "/api/v1/search", body)
}

// Explain posts a body to the explain endpoint.
func (ts *TestServer) Explain(body interface{}) Response {
	return ts.Do(http.MethodPost, "/api/v1/explain", body)
}

// Health performs a health check request.
func (ts *TestServer) Health() Response {
	return ts.Do(http.MethodGet, "/health", nil)
}

// DecodeSearch parses the response body as a search response.
func (r Response) DecodeSearch(t *testing.T) enginehttp.SearchResponseDTO {
	t.Helper()
	var resp enginehttp.SearchResponseDTO
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		t.Fatalf("Failed to decode search response: %v", err)
	}
	return resp
}

// DecodeExplain parses the response body as an explain response.
func (r Response) DecodeExplain(t *testing.T) enginehttp.ExplainResponseDTO {
	t.Helper()
	var resp enginehttp.ExplainResponseDTO
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		t.Fatalf("Failed to decode explain response: %v", err)
	}
	return resp
}

// DecodeError parses the response body as an error payload.
func (r Response) DecodeError(t *testing.T) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(r.Body, &payload); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return payload
}

// DefaultSearchBody returns a request matching the fixture data.
func DefaultSearchBody() *enginehttp.SearchRequestBody {
	return &enginehttp.SearchRequestBody{
		Origins:       []string{"JFK"},
		Destinations:  []string{"LAX"},
		DepartureDate: fixtureDate,
	}
}
