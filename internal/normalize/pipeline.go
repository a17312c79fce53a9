package normalize

import (
	"errors"

	"unifier/internal/catalog"
	"unifier/internal/provider"
	"unifier/internal/record"
	"unifier/internal/schema"
)

// Pipeline normalizes records against a catalog and a schema registry.
// It holds no mutable state and may be shared between goroutines.
type Pipeline struct {
	catalog *catalog.Catalog
	schemas *schema.Registry
}

// New returns a pipeline.
func New(cat *catalog.Catalog, schemas *schema.Registry) *Pipeline {
	return &Pipeline{catalog: cat, schemas: schemas}
}

// Catalog returns the pipeline's catalog.
func (p *Pipeline) Catalog() *catalog.Catalog {
	return p.catalog
}

// Schemas returns the pipeline's schema registry.
func (p *Pipeline) Schemas() *schema.Registry {
	return p.schemas
}

// Result is a normalized record and the provider it came from.
type Result struct {
	Record   *schema.Canonical
	Provider *provider.Provider
}

// Normalize identifies rec, transforms it for target and validates the
// result. Failures are *Error values.
func (p *Pipeline) Normalize(target string, rec record.Record) (*schema.Canonical, error) {
	res, err := p.run(p.catalog, target, rec)
	if err != nil {
		return nil, err
	}

	return res.Record, nil
}

// Stream returns a normalizer for the records of one input. It gives the
// same results as Normalize and is faster on inputs whose records share a
// field set. A Stream is not safe for concurrent use.
func (p *Pipeline) Stream(target string) *Stream {
	return &Stream{pipeline: p, target: target, identifier: catalog.NewCached(p.catalog)}
}

func (p *Pipeline) run(id catalog.Identifier, target string, rec record.Record) (Result, error) {
	canonical, ok := p.schemas.Lookup(target)
	if !ok {
		return Result{}, &Error{
			Kind:   KindConfiguration,
			Target: target,
			Err:    &provider.ConfigurationError{Target: target, Err: ErrUnknownTarget},
		}
	}

	prov, err := id.Identify(rec)
	if err != nil {
		return Result{}, &Error{Kind: KindUnknownSource, Target: target, Err: err}
	}

	out, err := prov.Transform(target, rec)
	if err != nil {
		kind := KindTransformFailed
		if errors.Is(err, provider.ErrConfiguration) {
			kind = KindConfiguration
		}

		return Result{}, &Error{Kind: kind, Provider: prov.Name(), Target: target, Err: err}
	}

	c, err := canonical.Validate(out)
	if err != nil {
		return Result{}, &Error{Kind: KindSchemaMismatch, Provider: prov.Name(), Target: target, Err: err}
	}

	return Result{Record: c, Provider: prov}, nil
}

// Stream normalizes the records of one input to one target.
type Stream struct {
	pipeline   *Pipeline
	target     string
	identifier catalog.Identifier
}

// Target returns the target schema name.
func (s *Stream) Target() string {
	return s.target
}

// Normalize normalizes one record.
func (s *Stream) Normalize(rec record.Record) (Result, error) {
	return s.pipeline.run(s.identifier, s.target, rec)
}
