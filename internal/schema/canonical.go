package schema

import (
	"maps"
	"strconv"

	"unifier/internal/record"
)

// Canonical is a record that passed validation against a schema. It holds
// exactly the schema's fields, encoded as string (string, enum and date
// fields), int64 (integer) or float64 (float).
type Canonical struct {
	schema *Schema
	values map[string]any
}

// Schema returns the schema the record conforms to.
func (c *Canonical) Schema() *Schema {
	return c.schema
}

// Fields returns the field names in schema order.
func (c *Canonical) Fields() []string {
	return c.schema.FieldNames()
}

// Get returns one field value.
func (c *Canonical) Get(field string) (any, bool) {
	v, ok := c.values[field]
	return v, ok
}

// Values returns the field values in schema order.
func (c *Canonical) Values() []any {
	out := make([]any, len(c.schema.fields))
	for i, f := range c.schema.fields {
		out[i] = c.values[f.Name]
	}

	return out
}

// Strings returns the values in schema order rendered as text, the form a
// delimited-file writer needs.
func (c *Canonical) Strings() []string {
	out := make([]string, len(c.schema.fields))
	for i, f := range c.schema.fields {
		switch v := c.values[f.Name].(type) {
		case string:
			out[i] = v
		case int64:
			out[i] = strconv.FormatInt(v, 10)
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			out[i] = record.Scalar(v)
		}
	}

	return out
}

// Map returns a copy of the values as a plain record.
func (c *Canonical) Map() record.Record {
	return maps.Clone(c.values)
}
