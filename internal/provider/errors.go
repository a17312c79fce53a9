package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("provider configuration error")
	// ErrUnsupportedTarget is wrapped when a provider has no transform for
	// the requested target schema.
	ErrUnsupportedTarget = errors.New("transformation logic is not implemented for target schema")
	// ErrTransform matches every *TransformError.
	ErrTransform = errors.New("transform failed")
)

// ConfigurationError reports a static setup mistake: a malformed provider
// definition or a request for a target the provider does not support. It
// is never attributable to a single record and is never worth retrying.
type ConfigurationError struct {
	Provider string
	Target   string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("provider %q: %v", e.Provider, e.Err)
	}

	return fmt.Sprintf("provider %q: target %s: %v", e.Provider, e.Target, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConfiguration) true.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// TransformError reports a value a transform could not parse. It is
// attributable to the record being transformed.
type TransformError struct {
	Provider string
	Target   string
	Field    string
	Err      error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("provider %q could not transform field %q for %s: %v", e.Provider, e.Field, e.Target, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransform) true.
func (e *TransformError) Is(target error) bool {
	return target == ErrTransform
}
