package entity

import "fmt"

// ValidationError reports a rejected preference change.
type ValidationError struct {
	Field  Field
	Value  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid preference value %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err as a ValidationError for field.
func NewValidationError(field Field, value string, err error) *ValidationError {
	reason := "rejected"
	if err != nil {
		reason = err.Error()
	}
	return &ValidationError{Field: field, Value: value, Reason: reason, Err: err}
}
