package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInput marks a missing or empty sequence input.
	ErrInput = errors.New("sequence input required")
	// ErrInvalidFilter marks an unrecognized status filter.
	ErrInvalidFilter = errors.New("invalid status filter")
	// ErrUpstreamFetch marks an unreachable or malformed population source.
	ErrUpstreamFetch = errors.New("population fetch failed")
)

// InputError reports a missing or empty sequence.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return ErrInput.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInput, e.Field)
}

func (e *InputError) Unwrap() error { return ErrInput }

// InvalidFilterError reports a status filter outside the known categories.
type InvalidFilterError struct {
	Value string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("%s %q: select one of 'missing', 'acknowledged', 'crime', 'disaster' or 'all'", ErrInvalidFilter, e.Value)
}

func (e *InvalidFilterError) Unwrap() error { return ErrInvalidFilter }

// UpstreamFetchError wraps a population source failure.
type UpstreamFetchError struct {
	Source string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", ErrUpstreamFetch, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", ErrUpstreamFetch, e.Source, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *UpstreamFetchError) Unwrap() []error { return []error{ErrUpstreamFetch, e.Err} }

// NewUpstreamFetchError wraps err unless it is already an upstream failure.
func NewUpstreamFetchError(source string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamFetchError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamFetchError{Source: source, Err: err}
}
