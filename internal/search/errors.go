package search

import "fmt"

// InvalidFilterError indicates a caller-supplied filter is malformed.
// Not retryable without correcting the input.
type InvalidFilterError struct {
	Field   string
	Message string
}

func (e *InvalidFilterError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid filter: %s", e.Message)
}

// UnavailableError indicates the embedding provider failed during a
// semantic search. Transient and retryable. Search never silently
// degrades to filter-only results instead: the caller asked for
// relevance ranking and would get an unrelated result set.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("semantic search unavailable: %v", e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
