package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only file format version understood.
const CurrentVersion = "1"

// LoadFile loads and parses a provider definitions file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider definitions %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse parses YAML data into a File. Unknown keys are rejected so typos
// in a definition do not silently change its meaning.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse provider definitions: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields and expands
// shorthands.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}

	for i := range f.Providers {
		for target, tm := range f.Providers[i].Transforms {
			NormalizeTargetMapping(&tm)
			f.Providers[i].Transforms[target] = tm
		}
	}
}

// NormalizeTargetMapping expands the 121 shorthand into Fields entries,
// sorted by source field, ahead of the explicit ones.
func NormalizeTargetMapping(tm *TargetMapping) {
	if len(tm.OneToOne) == 0 {
		return
	}

	expanded := make([]FieldMapping, 0, len(tm.OneToOne)+len(tm.Fields))
	for _, source := range slices.Sorted(maps.Keys(tm.OneToOne)) {
		expanded = append(expanded, FieldMapping{
			Target: tm.OneToOne[source],
			Source: StringOrArray{source},
		})
	}

	tm.Fields = append(expanded, tm.Fields...)
	tm.OneToOne = nil
}
