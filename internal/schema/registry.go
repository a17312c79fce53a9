package schema

import "fmt"

// CSVV1Name names the first canonical output schema.
const CSVV1Name = "CSV_V1"

// TimestampFormat is the canonical date rendering.
const TimestampFormat = "%Y-%m-%d"

var csvV1 = MustNew(CSVV1Name,
	Date("timestamp", TimestampFormat),
	String("type"),
	Float("amount", Gt(0)),
	Integer("from", Gte(0)),
	Integer("to", Gte(0)),
)

// CSVV1 returns the CSV_V1 canonical schema.
func CSVV1() *Schema {
	return csvV1
}

// Registry maps canonical schema names to schemas. It is filled once at
// construction and read-only afterwards.
type Registry struct {
	schemas map[string]*Schema
	order   []string
}

// NewRegistry builds a registry; duplicate names are rejected.
func NewRegistry(schemas ...*Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]*Schema, len(schemas))}

	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds s. Registration happens while the registry is being set
// up; a registry shared with a running pipeline must not be extended.
func (r *Registry) Register(s *Schema) error {
	if s == nil {
		return fmt.Errorf("schema registry: nil schema")
	}

	if _, dup := r.schemas[s.name]; dup {
		return fmt.Errorf("schema registry: duplicate schema %q", s.name)
	}

	r.schemas[s.name] = s
	r.order = append(r.order, s.name)

	return nil
}

// Default returns a registry holding every built-in canonical schema.
func Default() *Registry {
	r, err := NewRegistry(csvV1)
	if err != nil {
		panic(err)
	}

	return r
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
