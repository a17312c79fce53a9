package catalog

import (
	"strings"

	"unifier/internal/provider"
	"unifier/internal/record"
)

// maxShapes bounds the memo; inputs with more distinct field sets than
// this start over with an empty memo.
const maxShapes = 256

// Cached identifies records of one stream. Records of a stream usually
// share a field set, and a provider whose rule names a field the record
// lacks can never match it whatever the values are. Cached remembers, per
// field set, which providers remain possible and only checks those, in
// declaration order, so it always picks the same provider as
// Catalog.Identify.
//
// A Cached is not safe for concurrent use; give each stream its own.
type Cached struct {
	catalog *Catalog
	shapes  map[string][]*provider.Provider
}

var _ Identifier = (*Cached)(nil)

// NewCached returns a per-stream identifier over c.
func NewCached(c *Catalog) *Cached {
	return &Cached{catalog: c, shapes: make(map[string][]*provider.Provider)}
}

// Identify behaves like Catalog.Identify.
func (c *Cached) Identify(rec record.Record) (*provider.Provider, error) {
	for _, p := range c.possible(rec) {
		if p.Matches(rec) {
			return p, nil
		}
	}

	return nil, c.catalog.unidentified(rec)
}

func (c *Cached) possible(rec record.Record) []*provider.Provider {
	fields := rec.Fields()
	key := strings.Join(fields, "\x00")

	if ps, ok := c.shapes[key]; ok {
		return ps
	}

	var ps []*provider.Provider

	for _, p := range c.catalog.providers {
		if hasAll(rec, p.Ident().FieldNames()) {
			ps = append(ps, p)
		}
	}

	if len(c.shapes) >= maxShapes {
		clear(c.shapes)
	}

	c.shapes[key] = ps

	return ps
}

func hasAll(rec record.Record, fields []string) bool {
	for _, f := range fields {
		if !rec.Has(f) {
			return false
		}
	}

	return true
}
