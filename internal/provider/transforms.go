package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"unifier/internal/record"
	"unifier/internal/schema"
)

// ErrMissingField is wrapped by a *TransformError when a transform step
// needs a field the record does not carry.
var ErrMissingField = errors.New("field is missing")

// The helpers below are the building blocks for transforms. They modify
// rec in place, which is safe because Transform hands each TransformFunc a
// private copy.

// Rename moves from to to, replacing any value already stored under to.
// A missing from is left for target validation to report.
func Rename(rec record.Record, from, to string) {
	v, ok := rec[from]
	if !ok || from == to {
		return
	}

	delete(rec, from)
	rec[to] = v
}

// ReformatDate parses src with the in format and stores it under dst
// rendered with the out format. src is removed when it differs from dst.
func ReformatDate(rec record.Record, src, dst, in, out string) error {
	text, ok := rec.Text(src)
	if !ok {
		return &TransformError{Field: src, Err: ErrMissingField}
	}

	t, err := schema.ParseDate(in, text)
	if err != nil {
		return &TransformError{Field: src, Err: err}
	}

	if src != dst {
		delete(rec, src)
	}

	rec[dst] = schema.FormatDate(out, t)

	return nil
}

// Join stores the text renderings of srcs joined with sep under dst. The
// sources are removed unless one of them is dst itself.
func Join(rec record.Record, dst, sep string, srcs ...string) error {
	parts := make([]string, 0, len(srcs))

	for _, src := range srcs {
		text, ok := rec.Text(src)
		if !ok {
			return &TransformError{Field: src, Err: ErrMissingField}
		}

		parts = append(parts, text)
	}

	for _, src := range srcs {
		delete(rec, src)
	}

	rec[dst] = strings.Join(parts, sep)

	return nil
}

// WholeNumber rewrites field as the decimal rendering of its integer value,
// so " 007", 7.0 and json.Number("7") all become "7".
func WholeNumber(rec record.Record, field string) error {
	v, ok := rec[field]
	if !ok || v == nil {
		return &TransformError{Field: field, Err: ErrMissingField}
	}

	text, err := WholeNumberText(v)
	if err != nil {
		return &TransformError{Field: field, Err: err}
	}

	rec[field] = text

	return nil
}

// WholeNumberText renders an integer-valued scalar without padding,
// exponent or fraction.
func WholeNumberText(v any) (string, error) {
	text := record.Scalar(v)

	d, err := decimal.NewFromString(text)
	if err != nil {
		return "", fmt.Errorf("%q is not a number", text)
	}

	if !d.IsInteger() {
		return "", fmt.Errorf("%q is not a whole number", text)
	}

	return d.BigInt().String(), nil
}

// Set stores a constant under field.
func Set(rec record.Record, field string, v any) {
	rec[field] = v
}
