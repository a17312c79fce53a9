package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"unifier/internal/match"
	"unifier/internal/record"
	"unifier/internal/schema"
)

// ErrUnknownSource matches every *IdentificationError.
var ErrUnknownSource = errors.New("record does not match any known provider")

// IdentificationError reports a record no provider accepts. It names the
// closest provider so the mismatch can be diagnosed.
type IdentificationError struct {
	// Fields are the record's field names, sorted.
	Fields []string
	// Nearest is the provider whose rule failed on the fewest fields.
	// Empty for an empty catalog.
	Nearest string
	// Mismatch is why Nearest rejected the record.
	Mismatch *schema.ValidationError
	// Suggestions pair fields Nearest wanted with record fields that look
	// like misspellings of them.
	Suggestions []match.Candidate
}

func (e *IdentificationError) Error() string {
	var b strings.Builder

	b.WriteString(ErrUnknownSource.Error())
	fmt.Fprintf(&b, " (fields: %s)", strings.Join(e.Fields, ", "))

	if e.Nearest == "" {
		return b.String()
	}

	fmt.Fprintf(&b, "; nearest provider %s rejected it", e.Nearest)

	if e.Mismatch != nil {
		parts := make([]string, len(e.Mismatch.Errors))
		for i, fe := range e.Mismatch.Errors {
			parts[i] = fe.String()
		}

		b.WriteString(": " + strings.Join(parts, "; "))
	}

	if len(e.Suggestions) > 0 {
		hints := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			hints[i] = fmt.Sprintf("%s for %s", s.Wanted, s.Name)
		}

		b.WriteString("; did you mean " + strings.Join(hints, ", "))
	}

	return b.String()
}

// Is makes errors.Is(err, ErrUnknownSource) true.
func (e *IdentificationError) Is(target error) bool {
	return target == ErrUnknownSource
}

// Hints renders the suggestions as "wanted (got name)" strings.
func (e *IdentificationError) Hints() []string {
	hints := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		hints[i] = fmt.Sprintf("%s (got %s)", s.Wanted, s.Name)
	}

	return hints
}

// unidentified explains why no provider accepted rec. Ties on the number
// of failing fields go to the earlier provider.
func (c *Catalog) unidentified(rec record.Record) *IdentificationError {
	ierr := &IdentificationError{Fields: rec.Fields()}

	best := -1

	for _, p := range c.providers {
		var verr *schema.ValidationError
		if !errors.As(p.Explain(rec), &verr) {
			continue
		}

		if best >= 0 && len(verr.Errors) >= best {
			continue
		}

		best = len(verr.Errors)
		ierr.Nearest = p.Name()
		ierr.Mismatch = verr
	}

	if ierr.Mismatch == nil {
		return ierr
	}

	nearest, _ := c.Lookup(ierr.Nearest)
	expected := nearest.Ident().FieldNames()

	var unexpected []string

	for _, f := range ierr.Fields {
		if !slices.Contains(expected, f) {
			unexpected = append(unexpected, f)
		}
	}

	ierr.Suggestions = match.Pair(ierr.Mismatch.Missing(), unexpected, match.DefaultMinScore)

	return ierr
}
