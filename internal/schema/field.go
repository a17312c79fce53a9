package schema

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Field declares one named field of a schema.
type Field struct {
	Name       string
	Kind       FieldKind
	Constraint Constraint
}

// Constraint narrows the values a field accepts.
type Constraint struct {
	// Numeric bounds (integer and float kinds only).
	Gt, Gte, Lt, Lte *float64

	// Format is the strftime-style layout of a date field.
	Format string

	// Values is the closed set of an enum field.
	Values []string

	// AllowBlank lets string fields be empty or whitespace only.
	AllowBlank bool
}

// Option customizes a field built by one of the constructors below.
type Option func(*Field)

// Gt requires values strictly greater than v.
func Gt(v float64) Option {
	return func(f *Field) { f.Constraint.Gt = &v }
}

// Gte requires values greater than or equal to v.
func Gte(v float64) Option {
	return func(f *Field) { f.Constraint.Gte = &v }
}

// Lt requires values strictly less than v.
func Lt(v float64) Option {
	return func(f *Field) { f.Constraint.Lt = &v }
}

// Lte requires values less than or equal to v.
func Lte(v float64) Option {
	return func(f *Field) { f.Constraint.Lte = &v }
}

// AllowBlank accepts blank strings.
func AllowBlank() Option {
	return func(f *Field) { f.Constraint.AllowBlank = true }
}

// String declares a string field. Blank values are rejected unless
// AllowBlank is given.
func String(name string, opts ...Option) Field {
	return build(Field{Name: name, Kind: KindString}, opts)
}

// Integer declares a whole-number field.
func Integer(name string, opts ...Option) Field {
	return build(Field{Name: name, Kind: KindInteger}, opts)
}

// Float declares a real-number field.
func Float(name string, opts ...Option) Field {
	return build(Field{Name: name, Kind: KindFloat}, opts)
}

// Date declares a date field parsed and rendered with a strftime format.
func Date(name, format string, opts ...Option) Field {
	return build(Field{Name: name, Kind: KindDate, Constraint: Constraint{Format: format}}, opts)
}

// Enum declares a string field restricted to values.
func Enum(name string, values ...string) Field {
	return Field{Name: name, Kind: KindEnum, Constraint: Constraint{Values: slices.Clone(values)}}
}

func build(f Field, opts []Option) Field {
	for _, opt := range opts {
		opt(&f)
	}

	return f
}

// check verifies the declaration itself, independent of any record.
func (f Field) check() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("field name is empty")
	}

	if !f.Kind.IsValid() {
		return fmt.Errorf("field %q: invalid kind %s", f.Name, f.Kind)
	}

	c := f.Constraint
	if !f.Kind.IsNumber() && (c.Gt != nil || c.Gte != nil || c.Lt != nil || c.Lte != nil) {
		return fmt.Errorf("field %q: bounds are not allowed on %s fields", f.Name, f.Kind)
	}

	switch f.Kind {
	case KindDate:
		if c.Format == "" {
			return fmt.Errorf("field %q: date fields need a format", f.Name)
		}

		if err := ValidateFormat(c.Format); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	case KindEnum:
		if len(c.Values) == 0 {
			return fmt.Errorf("field %q: enum fields need at least one value", f.Name)
		}
	}

	return nil
}

// convert checks one value against the field and returns its canonical
// encoding. The returned error message is the human-readable reason.
func (f Field) convert(v any) (any, error) {
	if v == nil {
		return nil, errors.New("must not be null")
	}

	switch f.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value is not a string (%T)", v)
		}

		if !f.Constraint.AllowBlank && strings.TrimSpace(s) == "" {
			return nil, errors.New("blank value is not allowed")
		}

		return s, nil

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value is not a string (%T)", v)
		}

		if !slices.Contains(f.Constraint.Values, s) {
			return nil, fmt.Errorf("value %q is not one of %s", s, strings.Join(f.Constraint.Values, ", "))
		}

		return s, nil

	case KindInteger:
		d, ok := toDecimal(v)
		if !ok {
			return nil, fmt.Errorf("value %v is not a valid integer", v)
		}

		n, ok := toInt64(d)
		if !ok {
			return nil, fmt.Errorf("value %v is not a valid integer", v)
		}

		if err := f.Constraint.checkBounds(d); err != nil {
			return nil, err
		}

		return n, nil

	case KindFloat:
		d, ok := toDecimal(v)
		if !ok {
			return nil, fmt.Errorf("value %v is not a valid number", v)
		}

		if err := f.Constraint.checkBounds(d); err != nil {
			return nil, err
		}

		out, _ := d.Float64()

		// rounding to float64 can overflow or underflow; bounds hold for
		// the stored value
		stored, ok := fromFloat(out)
		if !ok {
			return nil, fmt.Errorf("value %v is out of float range", v)
		}

		if err := f.Constraint.checkBounds(stored); err != nil {
			return nil, fmt.Errorf("value %v rounds to %v: %w", v, out, err)
		}

		return out, nil

	case KindDate:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value is not a string (%T)", v)
		}

		t, err := ParseDate(f.Constraint.Format, s)
		if err != nil {
			return nil, err
		}

		return FormatDate(f.Constraint.Format, t), nil
	}

	return nil, fmt.Errorf("invalid kind %s", f.Kind)
}

// String renders the declaration, e.g. "amount float (> 0)".
func (f Field) String() string {
	var parts []string

	c := f.Constraint
	if c.Gt != nil {
		parts = append(parts, "> "+formatBound(*c.Gt))
	}

	if c.Gte != nil {
		parts = append(parts, ">= "+formatBound(*c.Gte))
	}

	if c.Lt != nil {
		parts = append(parts, "< "+formatBound(*c.Lt))
	}

	if c.Lte != nil {
		parts = append(parts, "<= "+formatBound(*c.Lte))
	}

	if c.Format != "" {
		parts = append(parts, c.Format)
	}

	if len(c.Values) > 0 {
		parts = append(parts, strings.Join(c.Values, "|"))
	}

	if c.AllowBlank {
		parts = append(parts, "blank ok")
	}

	s := f.Name + " " + strings.ToLower(f.Kind.String())
	if len(parts) > 0 {
		s += " (" + strings.Join(parts, ", ") + ")"
	}

	return s
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
