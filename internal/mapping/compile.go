package mapping

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"unifier/internal/diagnostic"
	"unifier/internal/provider"
	"unifier/internal/record"
	"unifier/internal/schema"
)

// Error is returned by Compile for a file with error diagnostics.
type Error struct {
	Diagnostics *diagnostic.Diagnostics
}

func (e *Error) Error() string {
	return "invalid provider definitions: " + e.Diagnostics.Error().Error()
}

// Is makes errors.Is(err, provider.ErrConfiguration) true.
func (e *Error) Is(target error) bool {
	return target == provider.ErrConfiguration
}

// Compile validates f and builds its providers in declaration order.
func Compile(f *File, schemas *schema.Registry) ([]*provider.Provider, error) {
	if diags := Validate(f, schemas); diags.HasErrors() {
		return nil, &Error{Diagnostics: diags}
	}

	providers := make([]*provider.Provider, 0, len(f.Providers))

	for i := range f.Providers {
		p, err := compileProvider(&f.Providers[i], schemas)
		if err != nil {
			return nil, err
		}

		providers = append(providers, p)
	}

	return providers, nil
}

func compileProvider(pd *ProviderDef, schemas *schema.Registry) (*provider.Provider, error) {
	fields := make([]schema.Field, 0, len(pd.Ident))
	byName := make(map[string]schema.Field, len(pd.Ident))

	for _, fd := range pd.Ident {
		field, err := fd.Field()
		if err != nil {
			return nil, &provider.ConfigurationError{Provider: pd.Name, Err: fmt.Errorf("ident.%s: %w", fd.Name, err)}
		}

		fields = append(fields, field)
		byName[field.Name] = field
	}

	ident, err := schema.New(pd.Name, fields...)
	if err != nil {
		return nil, &provider.ConfigurationError{Provider: pd.Name, Err: err}
	}

	var opts []provider.Option

	for _, target := range slices.Sorted(maps.Keys(pd.Transforms)) {
		canonical, _ := schemas.Lookup(target)
		tm := pd.Transforms[target]

		steps := make([]step, 0, len(tm.Fields))
		assigned := make(map[string]struct{}, len(tm.Fields))

		for _, fm := range tm.Fields {
			steps = append(steps, compileStep(fm, byName, canonical))
			assigned[fm.Target] = struct{}{}
		}

		steps = append(steps, carryOver(canonical, byName, assigned)...)

		opts = append(opts, provider.WithTransform(target, transform(steps)))
	}

	return provider.New(pd.Name, ident, opts...)
}

// step assigns one target field. It reads from the untouched input so
// mappings do not observe each other.
type step func(in, out record.Record) error

func transform(steps []step) provider.TransformFunc {
	return func(rec record.Record) (record.Record, error) {
		in := rec.Clone()

		for _, s := range steps {
			if err := s(in, rec); err != nil {
				return nil, err
			}
		}

		return rec, nil
	}
}

func compileStep(fm FieldMapping, ident map[string]schema.Field, canonical *schema.Schema) step {
	target := fm.Target

	if len(fm.Source) == 0 {
		value := *fm.Default

		return func(_, out record.Record) error {
			out[target] = value
			return nil
		}
	}

	if fm.Source.IsSingle() {
		src := fm.Source.First()
		from := ident[src]
		to, _ := canonical.Field(target)

		if from.Kind == schema.KindDate && to.Kind == schema.KindDate {
			return reformatDate(src, target, from.Constraint.Format, to.Constraint.Format)
		}

		return func(in, out record.Record) error {
			v, ok := in[src]
			if !ok {
				return &provider.TransformError{Field: src, Err: provider.ErrMissingField}
			}

			out[target] = v

			return nil
		}
	}

	sources := slices.Clone(fm.Source)
	sep := *fm.Join

	return func(in, out record.Record) error {
		parts := make([]string, len(sources))

		for i, src := range sources {
			text, err := render(in, src, ident[src].Kind)
			if err != nil {
				return err
			}

			parts[i] = text
		}

		out[target] = strings.Join(parts, sep)

		return nil
	}
}

// carryOver reformats dates that reach the target under their ident name
// without a mapping. Other carried fields are used as they are.
func carryOver(canonical *schema.Schema, ident map[string]schema.Field, assigned map[string]struct{}) []step {
	var steps []step

	for _, name := range canonical.FieldNames() {
		if _, ok := assigned[name]; ok {
			continue
		}

		from, ok := ident[name]
		if !ok {
			continue
		}

		to, _ := canonical.Field(name)
		if needsReformat(from, to) {
			steps = append(steps, reformatDate(name, name, from.Constraint.Format, to.Constraint.Format))
		}
	}

	return steps
}

func reformatDate(src, target, inFormat, outFormat string) step {
	return func(rec, dst record.Record) error {
		text, ok := rec.Text(src)
		if !ok {
			return &provider.TransformError{Field: src, Err: provider.ErrMissingField}
		}

		t, err := schema.ParseDate(inFormat, text)
		if err != nil {
			return &provider.TransformError{Field: src, Err: err}
		}

		dst[target] = schema.FormatDate(outFormat, t)

		return nil
	}
}

// render returns the text of one join source; integers lose padding.
func render(rec record.Record, field string, kind schema.FieldKind) (string, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return "", &provider.TransformError{Field: field, Err: provider.ErrMissingField}
	}

	if kind != schema.KindInteger {
		return record.Scalar(v), nil
	}

	text, err := provider.WholeNumberText(v)
	if err != nil {
		return "", &provider.TransformError{Field: field, Err: err}
	}

	return text, nil
}
