package catalog

import (
	"errors"
	"fmt"

	"unifier/internal/provider"
	"unifier/internal/record"
)

// Identifier resolves the provider of a record.
type Identifier interface {
	Identify(rec record.Record) (*provider.Provider, error)
}

// Catalog is an ordered, immutable list of providers.
type Catalog struct {
	providers []*provider.Provider
	index     map[string]int
}

var _ Identifier = (*Catalog)(nil)

// New builds a catalog. Nil entries and duplicate names are reported as
// *provider.ConfigurationError.
func New(providers ...*provider.Provider) (*Catalog, error) {
	c := &Catalog{
		providers: make([]*provider.Provider, 0, len(providers)),
		index:     make(map[string]int, len(providers)),
	}

	for i, p := range providers {
		if p == nil {
			return nil, &provider.ConfigurationError{Err: fmt.Errorf("catalog entry %d is nil", i)}
		}

		if _, dup := c.index[p.Name()]; dup {
			return nil, &provider.ConfigurationError{Provider: p.Name(), Err: errors.New("provider is declared twice")}
		}

		c.index[p.Name()] = len(c.providers)
		c.providers = append(c.providers, p)
	}

	return c, nil
}

// Default returns the catalog of built-in providers.
func Default() *Catalog {
	c, err := New(provider.Builtin()...)
	if err != nil {
		panic(err)
	}

	return c
}

// Extend returns a new catalog with more appended after the receiver's
// providers. The receiver is unchanged.
func (c *Catalog) Extend(more ...*provider.Provider) (*Catalog, error) {
	all := make([]*provider.Provider, 0, len(c.providers)+len(more))
	all = append(all, c.providers...)
	all = append(all, more...)

	return New(all...)
}

// Providers returns the providers in declaration order.
func (c *Catalog) Providers() []*provider.Provider {
	return append([]*provider.Provider(nil), c.providers...)
}

// Names returns provider names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}

	return names
}

// Len returns the number of providers.
func (c *Catalog) Len() int {
	return len(c.providers)
}

// Lookup returns the provider named name.
func (c *Catalog) Lookup(name string) (*provider.Provider, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}

	return c.providers[i], true
}

// Identify returns the first provider, in declaration order, whose
// identification rule accepts rec. When none does the error is an
// *IdentificationError.
func (c *Catalog) Identify(rec record.Record) (*provider.Provider, error) {
	for _, p := range c.providers {
		if p.Matches(rec) {
			return p, nil
		}
	}

	return nil, c.unidentified(rec)
}
