package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid matches every *ValidationError via errors.Is.
var ErrInvalid = errors.New("record does not fit schema")

// ReasonMissing is the FieldError reason for an absent field.
const ReasonMissing = "is required"

// FieldError describes why one field failed validation.
type FieldError struct {
	Field  string
	Reason string
}

// String returns "field: reason".
func (e FieldError) String() string {
	return e.Field + ": " + e.Reason
}

// IsMissing reports whether the field was absent from the record.
func (e FieldError) IsMissing() bool {
	return e.Reason == ReasonMissing
}

// ValidationError lists every field of a record that failed a schema, in
// schema field order.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}

	return fmt.Sprintf("record does not fit the %s schema: %s", e.Schema, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrInvalid) true for validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Missing returns the names of the fields that were absent.
func (e *ValidationError) Missing() []string {
	var out []string

	for _, fe := range e.Errors {
		if fe.IsMissing() {
			out = append(out, fe.Field)
		}
	}

	return out
}
