package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"unifier/internal/logger"
)

// SourceType names the layer a key was last set by.
type SourceType string

const (
	SourceDefault SourceType = "default"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceCLI     SourceType = "cli"
)

// Loader resolves a Config. It is not safe for concurrent use.
type Loader struct {
	koanf   *koanf.Koanf
	sources map[string]SourceType
	environ func() []string
}

func NewLoader() *Loader {
	return &Loader{
		koanf:   koanf.New("."),
		sources: map[string]SourceType{},
		environ: os.Environ,
	}
}

// Load applies defaults, then the YAML file at path (when path is not
// empty), then the environment, then overrides. Override keys use dotted
// config paths such as "log.level".
func (l *Loader) Load(ctx context.Context, path string, overrides map[string]any) (*Config, error) {
	l.koanf = koanf.New(".")
	clear(l.sources)

	if err := l.load(structs.Provider(Default(), "koanf"), SourceDefault); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		data, err := readYAML(path)
		if err != nil {
			return nil, err
		}

		if err := l.load(rawMap(data), SourceYAML); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", path, err)
		}
	}

	if err := l.loadEnvironment(); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		nested := map[string]any{}
		for key, value := range overrides {
			if err := setNested(nested, key, value); err != nil {
				return nil, err
			}
		}

		if err := l.load(rawMap(nested), SourceCLI); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	cfg, err := l.unmarshalAndValidate()
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("Configuration loaded", "file", path,
		"schema", cfg.Schema, "schema_from", l.Source("schema"),
		"on_error", cfg.OnError, "on_error_from", l.Source("on_error"))

	return cfg, nil
}

// Source reports which layer set key during the last Load.
func (l *Loader) Source(key string) SourceType {
	return l.sources[key]
}

func (l *Loader) load(p koanf.Provider, src SourceType) error {
	before := map[string]any{}
	for _, key := range l.koanf.Keys() {
		before[key] = l.koanf.Get(key)
	}

	if err := l.koanf.Load(p, nil); err != nil {
		return err
	}

	for _, key := range l.koanf.Keys() {
		prev, existed := before[key]
		if !existed || fmt.Sprint(prev) != fmt.Sprint(l.koanf.Get(key)) {
			l.sources[key] = src
		}
	}

	return nil
}

// envKey maps UNIFIER_LOG_LEVEL to log.level and UNIFIER_ON_ERROR to
// on_error by matching against the known keys.
func envKey(known map[string]string, name string) string {
	if !strings.HasPrefix(name, EnvPrefix) {
		return ""
	}

	return known[strings.TrimPrefix(name, EnvPrefix)]
}

func (l *Loader) loadEnvironment() error {
	known := map[string]string{}
	for _, key := range l.koanf.Keys() {
		known[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}

	err := l.load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			key := envKey(known, k)
			if key == "" {
				return "", nil
			}

			return key, v
		},
		EnvironFunc: l.environ,
	}), SourceEnv)
	if err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	return nil
}

func (l *Loader) unmarshalAndValidate() (*Config, error) {
	var cfg Config

	if err := l.koanf.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed%s: %w", l.blame(err), err)
	}

	return &cfg, nil
}

// blame names the layers that set the keys failing validation.
func (l *Loader) blame(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ""
	}

	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		parts[i] = fmt.Sprintf("%s set by %s", key, l.Source(key))
	}

	return " (" + strings.Join(parts, ", ") + ")"
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return filterNilValues(out), nil
}

func filterNilValues(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
		case map[string]any:
			out[k] = filterNilValues(val)
		default:
			out[k] = v
		}
	}

	return out
}

// setNested sets a value in a nested map using dot notation.
func setNested(m map[string]any, path string, value any) error {
	if path == "" {
		return errors.New("empty configuration key")
	}

	parts := strings.Split(path, ".")
	current := m

	for i, part := range parts[:len(parts)-1] {
		if _, exists := current[part]; !exists {
			current[part] = map[string]any{}
		}

		next, ok := current[part].(map[string]any)
		if !ok {
			return fmt.Errorf("configuration conflict: key %q is not a map", strings.Join(parts[:i+1], "."))
		}

		current = next
	}

	current[parts[len(parts)-1]] = value

	return nil
}

// rawMap is a koanf.Provider adapter for map[string]any data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("rawMap does not support ReadBytes")
}
