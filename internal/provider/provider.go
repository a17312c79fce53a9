package provider

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"unifier/internal/record"
	"unifier/internal/schema"
)

// TransformFunc rewrites a provider-shaped record toward a canonical
// target. The record it receives is a private copy and may be modified
// and returned.
type TransformFunc func(rec record.Record) (record.Record, error)

// Provider is one upstream data source.
type Provider struct {
	name       string
	ident      *schema.Schema
	transforms map[string]TransformFunc
}

// Option configures a provider under construction.
type Option func(*Provider) error

// WithTransform registers the transform for one target schema name.
func WithTransform(target string, fn TransformFunc) Option {
	return func(p *Provider) error {
		if strings.TrimSpace(target) == "" {
			return errors.New("transform target name is empty")
		}

		if fn == nil {
			return errors.New("transform for " + target + " is nil")
		}

		if _, dup := p.transforms[target]; dup {
			return errors.New("duplicate transform for " + target)
		}

		p.transforms[target] = fn

		return nil
	}
}

// New builds a provider. Malformed definitions are reported as
// *ConfigurationError.
func New(name string, ident *schema.Schema, opts ...Option) (*Provider, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ConfigurationError{Provider: name, Err: errors.New("provider name is empty")}
	}

	if ident == nil {
		return nil, &ConfigurationError{Provider: name, Err: errors.New("identification rule is nil")}
	}

	p := &Provider{
		name:       name,
		ident:      ident,
		transforms: make(map[string]TransformFunc),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, &ConfigurationError{Provider: name, Err: err}
		}
	}

	return p, nil
}

// MustNew is New for static declarations; it panics on error.
func MustNew(name string, ident *schema.Schema, opts ...Option) *Provider {
	p, err := New(name, ident, opts...)
	if err != nil {
		panic(err)
	}

	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// Ident returns the identification rule.
func (p *Provider) Ident() *schema.Schema {
	return p.ident
}

// Matches reports whether rec satisfies the identification rule.
func (p *Provider) Matches(rec record.Record) bool {
	return p.ident.Check(rec) == nil
}

// Explain returns why rec does not satisfy the identification rule, or nil
// when it does. A non-nil result is a *schema.ValidationError.
func (p *Provider) Explain(rec record.Record) error {
	return p.ident.Check(rec)
}

// Supports reports whether a transform is registered for target.
func (p *Provider) Supports(target string) bool {
	_, ok := p.transforms[target]
	return ok
}

// Targets returns the supported target schema names, sorted.
func (p *Provider) Targets() []string {
	return slices.Sorted(maps.Keys(p.transforms))
}

// Transform rewrites rec for target. The caller's record is never
// modified. A missing transform is a *ConfigurationError wrapping
// ErrUnsupportedTarget; a parse failure is a *TransformError.
func (p *Provider) Transform(target string, rec record.Record) (record.Record, error) {
	fn, ok := p.transforms[target]
	if !ok {
		return nil, &ConfigurationError{Provider: p.name, Target: target, Err: ErrUnsupportedTarget}
	}

	out, err := fn(rec.Clone())
	if err != nil {
		var terr *TransformError
		if errors.As(err, &terr) {
			terr.Provider = p.name
			terr.Target = target

			return nil, terr
		}

		var cerr *ConfigurationError
		if errors.As(err, &cerr) {
			return nil, err
		}

		return nil, &TransformError{Provider: p.name, Target: target, Err: err}
	}

	return out, nil
}

// String returns the provider name.
func (p *Provider) String() string {
	return p.name
}
