package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(env ...string) *Loader {
	l := NewLoader()
	l.environ = func() []string { return env }

	return l
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "unifier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoader_Defaults(t *testing.T) {
	l := newTestLoader()

	cfg, err := l.Load(t.Context(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, "CSV_V1", cfg.Schema)
	assert.Equal(t, "abort", cfg.OnError)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Output)
	assert.Empty(t, cfg.Inputs)
	assert.Equal(t, SourceDefault, l.Source("schema"))
}

func TestLoader_Precedence(t *testing.T) {
	path := writeFile(t, `
schema: CSV_V1
output: from-file.csv
on_error: skip
inputs: [a.csv, b.json]
log:
  level: warn
`)

	t.Run("Should take values from the file", func(t *testing.T) {
		l := newTestLoader()

		cfg, err := l.Load(t.Context(), path, nil)
		require.NoError(t, err)

		assert.Equal(t, "from-file.csv", cfg.Output)
		assert.Equal(t, "skip", cfg.OnError)
		assert.Equal(t, []string{"a.csv", "b.json"}, cfg.Inputs)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, SourceYAML, l.Source("output"))
		assert.Equal(t, SourceDefault, l.Source("log.json"))
	})

	t.Run("Should let the environment override the file", func(t *testing.T) {
		l := newTestLoader(
			"UNIFIER_OUTPUT=from-env.csv",
			"UNIFIER_LOG_LEVEL=debug",
			"UNIFIER_INPUTS=x.csv,y.csv",
			"UNIFIER_LOG_JSON=true",
			"OTHER_OUTPUT=ignored",
			"UNIFIER_UNKNOWN=ignored",
		)

		cfg, err := l.Load(t.Context(), path, nil)
		require.NoError(t, err)

		assert.Equal(t, "from-env.csv", cfg.Output)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.JSON)
		assert.Equal(t, []string{"x.csv", "y.csv"}, cfg.Inputs)
		assert.Equal(t, SourceEnv, l.Source("log.level"))
	})

	t.Run("Should let overrides win over everything", func(t *testing.T) {
		l := newTestLoader("UNIFIER_OUTPUT=from-env.csv")

		cfg, err := l.Load(t.Context(), path, map[string]any{
			"output":    "from-flag.csv",
			"log.level": "error",
		})
		require.NoError(t, err)

		assert.Equal(t, "from-flag.csv", cfg.Output)
		assert.Equal(t, "error", cfg.Log.Level)
		assert.Equal(t, "skip", cfg.OnError)
		assert.Equal(t, SourceCLI, l.Source("output"))
	})
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		env       []string
		overrides map[string]any
	}{
		{name: "unknown policy", env: []string{"UNIFIER_ON_ERROR=retry"}},
		{name: "unknown log level", overrides: map[string]any{"log.level": "loud"}},
		{name: "empty schema", overrides: map[string]any{"schema": ""}},
		{name: "unknown key", file: "bogus: 1\n"},
		{name: "malformed yaml", file: "schema: [\n"},
		{name: "blank input", overrides: map[string]any{"inputs": []string{"a.csv", " "}}},
		{name: "schema as map", overrides: map[string]any{"schema.name": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}

			_, err := newTestLoader(tt.env...).Load(t.Context(), path, tt.overrides)
			assert.Error(t, err)
		})
	}

	_, err := newTestLoader().Load(t.Context(), filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoader_ErrorsNameTheLayer(t *testing.T) {
	path := writeFile(t, "log:\n  level: loud\n")

	_, err := newTestLoader("UNIFIER_ON_ERROR=retry").Load(t.Context(), path, map[string]any{"schema": ""})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "schema set by cli")
	assert.Contains(t, err.Error(), "on_error set by env")
	assert.Contains(t, err.Error(), "log.level set by yaml")
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
