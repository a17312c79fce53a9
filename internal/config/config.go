// Package config resolves the settings of a unify run from defaults, an
// optional YAML file, UNIFIER_* environment variables and command line
// overrides, in increasing precedence.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "UNIFIER_"

type (
	Config struct {
		// Schema names the canonical schema records are normalized to.
		Schema string `koanf:"schema" validate:"required"`
		// Output is the requested output file name. Empty picks a random name.
		Output string `koanf:"output"`
		// OnError is the record failure policy: abort or skip.
		OnError string `koanf:"on_error" validate:"oneof=abort skip"`
		// Providers is an optional YAML file with extra provider definitions.
		Providers   string   `koanf:"providers"`
		MetricsFile string   `koanf:"metrics_file"`
		Inputs      []string `koanf:"inputs"`
		Log         Log      `koanf:"log"`
	}

	Log struct {
		Level  string `koanf:"level" validate:"oneof=debug info warn error disabled"`
		JSON   bool   `koanf:"json"`
		Source bool   `koanf:"source"`
	}
)

// validate names fields by their koanf key, so "Config.log.level" rather
// than "Config.Log.Level".
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		return name
	})

	return v
}()

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Schema:  "CSV_V1",
		OnError: "abort",
		Inputs:  []string{},
		Log: Log{
			Level: "info",
		},
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	for i, in := range c.Inputs {
		if strings.TrimSpace(in) == "" {
			return fmt.Errorf("validation failed: inputs[%d] is empty", i)
		}
	}

	return nil
}
