package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decision engine.
var (
	// ErrInvalidRequest indicates a search request failed validation.
	ErrInvalidRequest = errors.New("invalid search request")

	// ErrInvalidRecord indicates a raw provider record failed schema
	// validation. The record is dropped and counted; the batch proceeds.
	ErrInvalidRecord = errors.New("invalid raw record")

	// ErrAllProvidersFailed indicates no provider responded successfully.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrPipelineFailure indicates an internal invariant was violated after
	// normalization. Fatal for the fingerprint's computation: the result is
	// not cached and the error reaches every concurrent waiter.
	ErrPipelineFailure = errors.New("pipeline failure")
)

// ProviderError wraps a failure from a single provider with its name and
// whether the call is worth retrying.
type ProviderError struct {
	// Provider is the provider's unique name
	Provider string

	// Err is the underlying error
	Err error

	// Retryable indicates whether retrying the call may succeed
	Retryable bool
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a non-retryable provider error.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// NewRetryableProviderError creates a retryable provider error.
func NewRetryableProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err, Retryable: true}
}

// IsRetryable reports whether err is a retryable provider error.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
