package normalize

import (
	"errors"
	"fmt"

	"unifier/internal/catalog"
	"unifier/internal/provider"
	"unifier/internal/schema"
)

// Kind classifies a normalization failure.
type Kind int

const (
	_ Kind = iota
	// KindConfiguration is a static setup mistake; it aborts a run.
	KindConfiguration
	// KindUnknownSource means no provider accepted the record.
	KindUnknownSource
	// KindTransformFailed means the provider could not rewrite the record.
	KindTransformFailed
	// KindSchemaMismatch means the rewritten record does not fit the target.
	KindSchemaMismatch
)

// Sentinels matching an *Error of the corresponding Kind.
var (
	ErrConfiguration   = provider.ErrConfiguration
	ErrUnknownSource   = catalog.ErrUnknownSource
	ErrTransformFailed = provider.ErrTransform
	ErrSchemaMismatch  = schema.ErrInvalid
)

// ErrUnknownTarget is wrapped when the target schema is not registered.
var ErrUnknownTarget = errors.New("unknown target schema")

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindUnknownSource:
		return "unknown_source"
	case KindTransformFailed:
		return "transform_failed"
	case KindSchemaMismatch:
		return "schema_mismatch"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindUnknownSource:
		return ErrUnknownSource
	case KindTransformFailed:
		return ErrTransformFailed
	case KindSchemaMismatch:
		return ErrSchemaMismatch
	default:
		return nil
	}
}

// Error is a failed normalization.
type Error struct {
	Kind Kind
	// Provider is the identified provider; empty for KindUnknownSource and
	// for an unknown target.
	Provider string
	Target   string
	Err      error
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("normalize to %s: %s: %v", e.Target, e.Kind, e.Err)
	}

	return fmt.Sprintf("normalize %s record to %s: %s: %v", e.Provider, e.Target, e.Kind, e.Err)
}

// Unwrap returns the stage error: a *provider.ConfigurationError,
// *catalog.IdentificationError, *provider.TransformError or
// *schema.ValidationError.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of a normalization error, or 0 when err is not
// one.
func KindOf(err error) Kind {
	var nerr *Error
	if errors.As(err, &nerr) {
		return nerr.Kind
	}

	return 0
}

// IsFatal reports whether err must abort a run regardless of policy.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
