// Package mock provides test doubles for the decision engine.
// These mocks are designed for tests that need configurable behavior
// (delays, errors, panics, specific record sets).
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/skymind/travel-decision-engine/internal/domain"
)

// Provider is a configurable mock implementation of domain.Provider.
// It supports configurable delays, errors, and responses for testing
// scenarios including timeouts, retries, and partial failures.
type Provider struct {
	name      string
	records   []domain.RawRecord
	err       error
	failTimes int
	delay     time.Duration
	panics    bool
	callCount int
	mu        sync.Mutex
}

// NewProvider creates a new mock provider with the given name.
// The provider is configured using the builder pattern methods.
func NewProvider(name string) *Provider {
	return &Provider{name: name}
}

// WithRecords configures the provider to return the given raw records.
func (p *Provider) WithRecords(records []domain.RawRecord) *Provider {
	p.records = records
	return p
}

// WithError configures the provider to return the given error.
func (p *Provider) WithError(err error) *Provider {
	p.err = err
	return p
}

// WithErrorTimes configures the provider to fail the first n calls with err
// and succeed afterwards. Useful for retry tests.
func (p *Provider) WithErrorTimes(err error, n int) *Provider {
	p.err = err
	p.failTimes = n
	return p
}

// WithDelay configures the provider to wait the given duration before
// responding. This is useful for testing timeout behavior.
func (p *Provider) WithDelay(d time.Duration) *Provider {
	p.delay = d
	return p
}

// WithPanic configures the provider to panic on every call.
func (p *Provider) WithPanic() *Provider {
	p.panics = true
	return p
}

// Name returns the provider's unique identifier.
func (p *Provider) Name() string {
	return p.name
}

// Search implements domain.Provider.Search.
// It respects context cancellation, applies the configured delay, and
// returns the configured records or error.
func (p *Provider) Search(ctx context.Context, _ domain.SearchRequest) ([]domain.RawRecord, error) {
	p.mu.Lock()
	p.callCount++
	call := p.callCount
	p.mu.Unlock()

	if p.panics {
		panic("mock provider panic")
	}

	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if p.err != nil && (p.failTimes == 0 || call <= p.failTimes) {
		return nil, p.err
	}

	return p.records, nil
}

// CallCount returns the number of times Search was called.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// Reset resets the call count to zero.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCount = 0
}

// Ensure Provider implements domain.Provider at compile time.
var _ domain.Provider = (*Provider)(nil)

// SampleRecords returns valid direct JFK-LAX raw records for testing.
// Flight numbers are derived from the provider name, so records from two
// different providers never describe the same physical flight and survive
// deduplication as distinct journeys.
func SampleRecords(provider string, count int) []domain.RawRecord {
	records := make([]domain.RawRecord, count)
	base := time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)
	block := 100 + flightBlock(provider)*10

	for i := 0; i < count; i++ {
		departure := base.Add(time.Duration(i*2) * time.Hour)
		arrival := departure.Add(6*time.Hour + 30*time.Minute)

		records[i] = domain.RawRecord{
			ProviderID: provider + "-" + intToString(i+1),
			Provider:   provider,
			Legs: []domain.RawLeg{{
				OriginCode:     "JFK",
				OriginCity:     "New York",
				OriginTimezone: "America/New_York",
				DestCode:       "LAX",
				DestCity:       "Los Angeles",
				DestTimezone:   "America/Los_Angeles",
				Departure:      departure,
				Arrival:        arrival,
				AirlineCode:    "DL",
				AirlineName:    "Delta Air Lines",
				FlightNumber:   "DL" + intToString(block+i),
				CabinClass:     "economy",
				OnTimeRate:     0.85,
			}},
			TotalPrice: 280 + float64(i*40),
			Currency:   "USD",
			BaseFare:   250 + float64(i*40),
		}
	}

	return records
}

// flightBlock maps a provider name onto one of 89 ten-flight number blocks.
// Up to ten records per provider keep their numbers inside the block.
func flightBlock(provider string) int {
	h := 0
	for _, c := range provider {
		h = h*31 + int(c)
	}
	if h < 0 {
		h = -h
	}
	return h % 89
}

// intToString converts an integer to string without importing strconv.
func intToString(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + intToString(-n)
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
