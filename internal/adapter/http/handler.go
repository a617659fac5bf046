// Package http provides the HTTP handler layer for the decision engine API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/skymind/travel-decision-engine/internal/adapter/http/response"
	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/usecase"
)

// SearchHandler handles HTTP requests for the search and explain endpoints.
type SearchHandler struct {
	useCase usecase.SearchUseCase
}

// NewSearchHandler creates a new SearchHandler with the given use case.
func NewSearchHandler(uc usecase.SearchUseCase) *SearchHandler {
	return &SearchHandler{
		useCase: uc,
	}
}

// Search handles POST /api/v1/search. It returns the first page of the
// ranked itineraries with full leg, score, and risk detail.
func (h *SearchHandler) Search(c echo.Context) error {
	req, ok, err := h.bindAndValidate(c)
	if !ok {
		return err
	}

	result, err := h.useCase.Search(c.Request().Context(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, NewSearchResponse(req, result))
}

// Explain handles POST /api/v1/explain. It runs the same search (usually a
// cache hit right after /search) and returns the decision rationale for the
// top picks: category, explanation, tradeoffs, and booking advice.
func (h *SearchHandler) Explain(c echo.Context) error {
	req, ok, err := h.bindAndValidate(c)
	if !ok {
		return err
	}

	result, err := h.useCase.Search(c.Request().Context(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, NewExplainResponse(req, result))
}

// bindAndValidate parses the request body and converts it to a domain
// request. When ok is false the error response has already been written and
// the caller should return err as-is.
func (h *SearchHandler) bindAndValidate(c echo.Context) (req domain.SearchRequest, ok bool, err error) {
	var body SearchRequestBody

	if err := c.Bind(&body); err != nil {
		return domain.SearchRequest{}, false, response.InvalidRequestBody(c)
	}

	if err := body.Validate(); err != nil {
		return domain.SearchRequest{}, false, h.handleValidationError(c, err)
	}

	return ToDomainRequest(&body), true, nil
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *SearchHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *SearchHandler) handleError(c echo.Context, err error) error {
	// Check for all providers failed
	if errors.Is(err, domain.ErrAllProvidersFailed) {
		return response.ServiceUnavailable(c)
	}

	// Check for context deadline exceeded (timeout)
	if errors.Is(err, context.DeadlineExceeded) {
		return response.GatewayTimeout(c)
	}

	// Check for context cancelled
	if errors.Is(err, context.Canceled) {
		return response.RequestCancelled(c)
	}

	// Check for invalid request (domain validation)
	if errors.Is(err, domain.ErrInvalidRequest) {
		return response.ValidationErrorWithMessage(c, err.Error())
	}

	// Default to internal server error
	return response.InternalServerError(c)
}

// Health handles GET /health
// Simple health check endpoint.
func (h *SearchHandler) Health(c echo.Context) error {
	return response.Health(c)
}
