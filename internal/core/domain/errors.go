package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a search was submitted without a topic.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrQueryInFlight indicates a query is already running for the session.
	ErrQueryInFlight = errors.New("a query is already in flight")

	// Pipeline Errors.

	// ErrRetrieval indicates the grounded generation call failed.
	// Matched by every *RetrievalError.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrMalformedResponse indicates the generator's text was not a JSON array.
	// Matched by every *MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed response")

	// Generator Errors.

	// ErrGeneratorUnavailable indicates no grounded generator is configured.
	ErrGeneratorUnavailable = errors.New("grounded generator unavailable")

	// ErrProviderNotConfigured indicates the selected provider lacks credentials.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrAuthInvalid indicates the provider rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the provider's rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceFailure indicates the provider returned a server-side error.
	ErrServiceFailure = errors.New("service failure")

	// ErrEmptyResponse indicates the provider returned no candidates.
	ErrEmptyResponse = errors.New("empty response")
)

// RetrievalError wraps a failed grounded generation call.
// It is terminal for the query and never retried.
type RetrievalError struct {
	// Provider names the generator that failed.
	Provider string

	// Err is the underlying cause.
	Err error
}

// NewRetrievalError wraps err for the named provider.
// An err that is already a *RetrievalError is returned unchanged.
func NewRetrievalError(provider string, err error) error {
	var re *RetrievalError
	if errors.As(err, &re) {
		return err
	}
	return &RetrievalError{Provider: provider, Err: err}
}

func (e *RetrievalError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("retrieval failed: %v", e.Err)
	}
	return fmt.Sprintf("retrieval failed (%s): %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRetrieval.
func (e *RetrievalError) Is(target error) bool {
	return target == ErrRetrieval
}

// MalformedResponseError reports that the generator's text could not be
// decoded as a JSON array. It is recovered locally as zero results.
type MalformedResponseError struct {
	// Reason is a short description such as "empty text" or "not an array".
	Reason string

	// Err is the decoder error, if any.
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

// Unwrap returns the decoder error.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// RecordShapeWarning is a non-fatal problem with one decoded element.
// The element was either repaired or, when Dropped is set, excluded.
type RecordShapeWarning struct {
	// Index is the element's position in the decoded array.
	Index int

	// Field names the offending field.
	Field string

	// Reason describes the repair.
	Reason string

	// Dropped is true when the element was excluded from the output.
	Dropped bool
}

func (w RecordShapeWarning) Error() string {
	action := "repaired"
	if w.Dropped {
		action = "dropped"
	}
	return fmt.Sprintf("record %d %s: %s: %s", w.Index, action, w.Field, w.Reason)
}
