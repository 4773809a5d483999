package matching

import (
	"fmt"

	"github.com/google/uuid"
)

// DimensionMismatchError indicates two vectors of different lengths were
// compared. This is a wiring error, not a recoverable condition.
type DimensionMismatchError struct {
	LenA int
	LenB int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: %d vs %d", e.LenA, e.LenB)
}

// AnchorEmbeddingMissingError indicates the anchor entity of a matching
// call has no stored embedding. The caller must trigger generation first;
// the UI surfaces this as an actionable prompt rather than a failure.
type AnchorEmbeddingMissingError struct {
	Entity string
	ID     uuid.UUID
	Cause  error
}

func (e *AnchorEmbeddingMissingError) Error() string {
	return fmt.Sprintf("%s %s embedding not generated yet", e.Entity, e.ID)
}

func (e *AnchorEmbeddingMissingError) Unwrap() error {
	return e.Cause
}
