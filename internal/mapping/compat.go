package mapping

import (
	"fmt"
	"strings"

	"unifier/internal/schema"
)

// incompatible returns why values of from cannot be stored in to as they
// are, or nil. Dates of any format fit each other because compiled steps
// reformat them.
func incompatible(from, to schema.Field) error {
	if from.Kind == to.Kind {
		return nil
	}

	switch {
	case from.Kind == schema.KindInteger && to.Kind == schema.KindFloat:
		return nil
	case to.Kind == schema.KindString && (from.Kind == schema.KindEnum || from.Kind == schema.KindDate):
		return nil
	}

	return fmt.Errorf("%s field %q cannot fill %s field %q",
		strings.ToLower(from.Kind.String()), from.Name, strings.ToLower(to.Kind.String()), to.Name)
}

// needsReformat reports whether a date copied from one field to the other
// has to be parsed and rendered again.
func needsReformat(from, to schema.Field) bool {
	return from.Kind == schema.KindDate && to.Kind == schema.KindDate &&
		from.Constraint.Format != to.Constraint.Format
}
