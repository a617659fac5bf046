// Package http provides the HTTP handler layer for the decision engine API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SearchRequestBody is the request body for POST /api/v1/search and
// POST /api/v1/explain. Both endpoints describe the same search; explain
// just renders a different slice of the result.
type SearchRequestBody struct {
	// Origins are candidate departure airport IATA codes (e.g., ["JFK", "EWR"])
	Origins []string `json:"origins"`

	// Destinations are candidate arrival airport IATA codes
	Destinations []string `json:"destinations"`

	// DepartureDate is the desired departure date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate"`

	// CabinClass is the requested cabin: economy, premium_economy, business, first (optional)
	CabinClass string `json:"cabinClass,omitempty"`

	// Travelers is the number of travelers (1-9, defaults to 1)
	Travelers int `json:"travelers,omitempty"`

	// Priority selects the scoring profile: balanced, cheapest, fastest, comfort (optional)
	Priority string `json:"priority,omitempty"`

	// Filters contains optional hard constraints
	Filters *FiltersDTO `json:"filters,omitempty"`
}

// FiltersDTO represents optional hard constraints on a search.
// Example: {"maxPrice": 400, "maxStops": 1, "noRedEyes": true}
type FiltersDTO struct {
	// MaxStops drops itineraries with more stops than this value (0 = direct only)
	MaxStops *int `json:"maxStops,omitempty"`

	// MaxPrice drops itineraries with a display total above this amount
	MaxPrice *float64 `json:"maxPrice,omitempty"`

	// NonstopOnly keeps direct itineraries only
	NonstopOnly bool `json:"nonstopOnly,omitempty"`

	// NoRedEyes drops itineraries departing in the red-eye window
	NoRedEyes bool `json:"noRedEyes,omitempty"`

	// NoOvernightLayovers drops itineraries with an overnight layover
	NoOvernightLayovers bool `json:"noOvernightLayovers,omitempty"`
}

// Validation regex patterns.
var (
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Valid cabin classes.
var validCabinClasses = map[string]bool{
	"economy":         true,
	"premium_economy": true,
	"business":        true,
	"first":           true,
	"":                true, // Empty is valid (defaults to economy)
}

// Valid priority profiles, including legacy aliases.
var validPriorities = map[string]bool{
	"balanced": true,
	"cheapest": true,
	"fastest":  true,
	"comfort":  true,
	"cheap":    true, // Alias for cheapest
	"fast":     true, // Alias for fastest
	"":         true, // Empty is valid (defaults to balanced)
}

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate validates the search request and returns any validation errors.
// Airport codes are normalized to uppercase in place.
func (r *SearchRequestBody) Validate() error {
	errs := &ValidationErrors{}

	r.validateAirports("origins", r.Origins, errs)
	r.validateAirports("destinations", r.Destinations, errs)
	r.validateOriginDestinationDisjoint(errs)
	r.validateDepartureDate(errs)
	r.validateTravelers(errs)
	r.validateCabinClass(errs)
	r.validatePriority(errs)
	r.validateFilters(errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (r *SearchRequestBody) validateAirports(field string, codes []string, errs *ValidationErrors) {
	if len(codes) == 0 {
		errs.Add(field, fmt.Sprintf("at least one %s airport is required", strings.TrimSuffix(field, "s")))
		return
	}

	for i, code := range codes {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if !airportCodePattern.MatchString(normalized) {
			errs.Add(fmt.Sprintf("%s[%d]", field, i), "must be a valid 3-letter IATA airport code")
			continue
		}
		codes[i] = normalized
	}
}

func (r *SearchRequestBody) validateOriginDestinationDisjoint(errs *ValidationErrors) {
	for _, o := range r.Origins {
		for _, d := range r.Destinations {
			if o != "" && o == d {
				errs.Add("destinations", "origins and destinations must not overlap")
				return
			}
		}
	}
}

func (r *SearchRequestBody) validateDepartureDate(errs *ValidationErrors) {
	if r.DepartureDate == "" {
		errs.Add("departureDate", "departureDate is required")
		return
	}

	if !datePattern.MatchString(r.DepartureDate) {
		errs.Add("departureDate", "departureDate must be in YYYY-MM-DD format")
		return
	}

	if _, err := time.Parse("2006-01-02", r.DepartureDate); err != nil {
		errs.Add("departureDate", "departureDate is not a valid date")
	}
}

func (r *SearchRequestBody) validateTravelers(errs *ValidationErrors) {
	// Zero means "not specified" and defaults to 1 downstream.
	if r.Travelers < 0 {
		errs.Add("travelers", "travelers must be at least 1")
		return
	}
	if r.Travelers > 9 {
		errs.Add("travelers", "travelers cannot exceed 9")
	}
}

func (r *SearchRequestBody) validateCabinClass(errs *ValidationErrors) {
	if !validCabinClasses[strings.ToLower(r.CabinClass)] {
		errs.Add("cabinClass", "cabinClass must be one of: economy, premium_economy, business, first")
	}
}

func (r *SearchRequestBody) validatePriority(errs *ValidationErrors) {
	if !validPriorities[strings.ToLower(r.Priority)] {
		errs.Add("priority", "priority must be one of: balanced, cheapest, fastest, comfort")
	}
}

func (r *SearchRequestBody) validateFilters(errs *ValidationErrors) {
	if r.Filters == nil {
		return
	}

	if r.Filters.MaxPrice != nil && *r.Filters.MaxPrice <= 0 {
		errs.Add("filters.maxPrice", "maxPrice must be a positive number")
	}

	if r.Filters.MaxStops != nil && *r.Filters.MaxStops < 0 {
		errs.Add("filters.maxStops", "maxStops must be a non-negative number")
	}
}
