package unify

import (
	"maps"
	"slices"

	"unifier/internal/diagnostic"
	"unifier/internal/source"
)

// FileReport counts what happened to one input.
type FileReport struct {
	Path    string
	Format  source.Format
	Read    int
	Emitted int
	Skipped int
}

// Report summarizes a run.
type Report struct {
	// Output is the written file; empty when the run failed.
	Output string
	// Rows counts the records in the output, including any the sink held
	// before the run.
	Rows  int
	Files []FileReport
	// Providers counts emitted records per provider name.
	Providers   map[string]int
	Diagnostics diagnostic.Diagnostics
}

func (r *Report) Read() int {
	return r.sum(func(f FileReport) int { return f.Read })
}

func (r *Report) Emitted() int {
	return r.sum(func(f FileReport) int { return f.Emitted })
}

func (r *Report) Skipped() int {
	return r.sum(func(f FileReport) int { return f.Skipped })
}

// ProviderNames returns the providers that produced records, sorted.
func (r *Report) ProviderNames() []string {
	return slices.Sorted(maps.Keys(r.Providers))
}

func (r *Report) sum(fn func(FileReport) int) int {
	n := 0
	for _, f := range r.Files {
		n += fn(f)
	}

	return n
}
