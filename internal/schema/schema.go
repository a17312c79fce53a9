package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"unifier/internal/record"
)

// Schema is a named, ordered set of field declarations. It is immutable
// once built and safe for concurrent use.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// New builds a schema, rejecting malformed declarations: empty names,
// duplicate fields, bounds on non-numeric kinds, date fields without a
// usable format and enums without values.
func New(name string, fields ...Field) (*Schema, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("schema name is empty")
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %q declares no fields", name)
	}

	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if err := f.check(); err != nil {
			return nil, fmt.Errorf("schema %q: %w", name, err)
		}

		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("schema %q: duplicate field %q", name, f.Name)
		}

		f.Constraint.Values = slices.Clone(f.Constraint.Values)
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustNew is New for static declarations; it panics on error.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}

	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns a copy of the field declarations in order.
func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

// FieldNames returns the declared field names in order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}

	return names
}

// Field looks up a declaration by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}

	return s.fields[i], true
}

// Check reports whether rec satisfies the schema without building the
// canonical form. The error, if any, is a *ValidationError.
func (s *Schema) Check(rec record.Record) error {
	_, err := s.Validate(rec)
	return err
}

// Validate checks every declared field of rec and returns the canonical
// record holding exactly those fields. Undeclared fields are dropped.
func (s *Schema) Validate(rec record.Record) (*Canonical, error) {
	values := make(map[string]any, len(s.fields))

	var errs []FieldError

	for _, f := range s.fields {
		raw, ok := rec[f.Name]
		if !ok {
			errs = append(errs, FieldError{Field: f.Name, Reason: ReasonMissing})
			continue
		}

		v, err := f.convert(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: f.Name, Reason: err.Error()})
			continue
		}

		values[f.Name] = v
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Schema: s.name, Errors: errs}
	}

	return &Canonical{schema: s, values: values}, nil
}

// String renders the schema for listings.
func (s *Schema) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}

	return s.name + "{" + strings.Join(parts, ", ") + "}"
}
