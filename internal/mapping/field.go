package mapping

import (
	"errors"

	"unifier/internal/schema"
)

// Field converts the declaration into a schema field. Constraints that do
// not apply to the kind are rejected rather than ignored.
func (f FieldDef) Field() (schema.Field, error) {
	kind, err := schema.ParseKind(f.Kind)
	if err != nil {
		return schema.Field{}, err
	}

	switch {
	case f.Format != "" && kind != schema.KindDate:
		return schema.Field{}, errors.New("format only applies to date fields")
	case len(f.Values) > 0 && kind != schema.KindEnum:
		return schema.Field{}, errors.New("values only apply to enum fields")
	case f.hasBounds() && !kind.IsNumber():
		return schema.Field{}, errors.New("gt, gte, lt and lte only apply to integer and float fields")
	case f.AllowBlank && kind != schema.KindString:
		return schema.Field{}, errors.New("allow_blank only applies to string fields")
	}

	var opts []schema.Option

	if f.Gt != nil {
		opts = append(opts, schema.Gt(*f.Gt))
	}

	if f.Gte != nil {
		opts = append(opts, schema.Gte(*f.Gte))
	}

	if f.Lt != nil {
		opts = append(opts, schema.Lt(*f.Lt))
	}

	if f.Lte != nil {
		opts = append(opts, schema.Lte(*f.Lte))
	}

	if f.AllowBlank {
		opts = append(opts, schema.AllowBlank())
	}

	var field schema.Field

	switch kind {
	case schema.KindString:
		field = schema.String(f.Name, opts...)
	case schema.KindInteger:
		field = schema.Integer(f.Name, opts...)
	case schema.KindFloat:
		field = schema.Float(f.Name, opts...)
	case schema.KindDate:
		field = schema.Date(f.Name, f.Format)
	case schema.KindEnum:
		field = schema.Enum(f.Name, f.Values...)
	}

	// the schema constructor checks the rest of the declaration
	if _, err := schema.New("ident", field); err != nil {
		return schema.Field{}, err
	}

	return field, nil
}
