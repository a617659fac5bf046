package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// airportCodeRegex matches valid IATA airport codes (3 uppercase letters).
var airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// dateRegex matches dates in YYYY-MM-DD format.
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SearchFilters are the optional hard constraints on a search.
type SearchFilters struct {
	// MaxStops drops itineraries with more stops than this value
	MaxStops *int `json:"maxStops,omitempty"`

	// MaxPrice drops itineraries with a display total above this amount
	MaxPrice *float64 `json:"maxPrice,omitempty"`

	// NonstopOnly keeps direct itineraries only
	NonstopOnly bool `json:"nonstopOnly,omitempty"`

	// NoRedEyes drops itineraries with a red-eye departure
	NoRedEyes bool `json:"noRedEyes,omitempty"`

	// NoOvernightLayovers drops itineraries with an overnight layover
	NoOvernightLayovers bool `json:"noOvernightLayovers,omitempty"`
}

// SearchRequest carries the parameters of one search.
type SearchRequest struct {
	// Origins are candidate departure airport codes (at least one)
	Origins []string `json:"origins"`

	// Destinations are candidate arrival airport codes (at least one)
	Destinations []string `json:"destinations"`

	// DepartureDate is the desired departure date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate"`

	// CabinClass is the requested cabin (default economy)
	CabinClass CabinClass `json:"cabinClass,omitempty"`

	// Travelers is the number of travelers (1-9, default 1)
	Travelers int `json:"travelers"`

	// Priority selects the scoring profile (default balanced)
	Priority string `json:"priority,omitempty"`

	// Filters are optional hard constraints
	Filters SearchFilters `json:"filters,omitempty"`
}

// SetDefaults applies default values to empty optional fields.
func (r *SearchRequest) SetDefaults() {
	if r.Travelers == 0 {
		r.Travelers = 1
	}
	if r.CabinClass == "" {
		r.CabinClass = CabinEconomy
	}
	if r.Priority == "" {
		r.Priority = PriorityBalanced
	}
	r.Priority = CanonicalPriority(strings.ToLower(r.Priority))
}

// Validate checks the search request.
// Returns a wrapped ErrInvalidRequest error if validation fails.
func (r *SearchRequest) Validate() error {
	if len(r.Origins) == 0 {
		return fmt.Errorf("%w: at least one origin is required", ErrInvalidRequest)
	}
	if len(r.Destinations) == 0 {
		return fmt.Errorf("%w: at least one destination is required", ErrInvalidRequest)
	}
	for _, code := range r.Origins {
		if !airportCodeRegex.MatchString(code) {
			return fmt.Errorf("%w: origin must be a valid 3-letter IATA code, got %q", ErrInvalidRequest, code)
		}
	}
	for _, code := range r.Destinations {
		if !airportCodeRegex.MatchString(code) {
			return fmt.Errorf("%w: destination must be a valid 3-letter IATA code, got %q", ErrInvalidRequest, code)
		}
	}
	for _, o := range r.Origins {
		for _, d := range r.Destinations {
			if o == d {
				return fmt.Errorf("%w: origin and destination must be different, got %q on both sides", ErrInvalidRequest, o)
			}
		}
	}

	if r.DepartureDate == "" {
		return fmt.Errorf("%w: departureDate is required", ErrInvalidRequest)
	}
	if !dateRegex.MatchString(r.DepartureDate) {
		return fmt.Errorf("%w: departureDate must be in YYYY-MM-DD format, got %q", ErrInvalidRequest, r.DepartureDate)
	}
	if _, err := time.Parse("2006-01-02", r.DepartureDate); err != nil {
		return fmt.Errorf("%w: departureDate is not a valid date: %s", ErrInvalidRequest, r.DepartureDate)
	}

	if r.Travelers < 1 {
		return fmt.Errorf("%w: travelers must be at least 1", ErrInvalidRequest)
	}
	if r.Travelers > 9 {
		return fmt.Errorf("%w: travelers cannot exceed 9", ErrInvalidRequest)
	}

	if r.CabinClass != "" && !r.CabinClass.IsValid() {
		return fmt.Errorf("%w: cabinClass must be one of: economy, premium_economy, business, first; got %q",
			ErrInvalidRequest, r.CabinClass)
	}

	if r.Filters.MaxStops != nil && *r.Filters.MaxStops < 0 {
		return fmt.Errorf("%w: maxStops cannot be negative", ErrInvalidRequest)
	}
	if r.Filters.MaxPrice != nil && *r.Filters.MaxPrice <= 0 {
		return fmt.Errorf("%w: maxPrice must be positive", ErrInvalidRequest)
	}

	return nil
}

// Fingerprint is the deterministic cache key for a search request.
type Fingerprint string

// Fingerprint hashes the normalized request parameters. Origin and
// destination order does not matter; every parameter that changes the result
// set (date, cabin, travelers, priority, filters) does.
func (r *SearchRequest) Fingerprint() Fingerprint {
	h := xxhash.New()

	writeSorted := func(codes []string) {
		sorted := make([]string, len(codes))
		copy(sorted, codes)
		sort.Strings(sorted)
		for _, c := range sorted {
			h.WriteString(c)
			h.WriteString("|")
		}
		h.WriteString(";")
	}

	writeSorted(r.Origins)
	writeSorted(r.Destinations)
	h.WriteString(r.DepartureDate)
	h.WriteString(";")
	h.WriteString(string(r.CabinClass))
	h.WriteString(";")
	h.WriteString(strconv.Itoa(r.Travelers))
	h.WriteString(";")
	h.WriteString(CanonicalPriority(r.Priority))
	h.WriteString(";")

	if r.Filters.MaxStops != nil {
		h.WriteString("stops=" + strconv.Itoa(*r.Filters.MaxStops))
	}
	if r.Filters.MaxPrice != nil {
		h.WriteString("price=" + strconv.FormatFloat(*r.Filters.MaxPrice, 'f', 2, 64))
	}
	if r.Filters.NonstopOnly {
		h.WriteString("nonstop")
	}
	if r.Filters.NoRedEyes {
		h.WriteString("noredeye")
	}
	if r.Filters.NoOvernightLayovers {
		h.WriteString("noovernight")
	}

	return Fingerprint(fmt.Sprintf("%016x", h.Sum64()))
}
