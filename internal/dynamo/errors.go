package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors. The numerical core never returns these; they surface at the
// configuration and orchestration boundary.
var (
	// ErrInvalidConfig indicates a simulation or render setting outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidSystem indicates a physical system that cannot be simulated.
	ErrInvalidSystem = errors.New("dynamo: invalid physical system")

	// ErrThresholdMismatch indicates escape thresholds not aligned to the magnet list.
	ErrThresholdMismatch = errors.New("dynamo: escape thresholds not aligned with magnets")

	// ErrUnknownPreset indicates a preset name with no definition.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)

// FieldError wraps a sentinel with the offending field.
type FieldError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s = %v", e.Wrapped, e.Field, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Wrapped
}

// Invalid builds a FieldError wrapping ErrInvalidConfig.
func Invalid(field string, value any) error {
	return &FieldError{Field: field, Value: value, Wrapped: ErrInvalidConfig}
}
