package mapping

import (
	"fmt"
	"maps"
	"slices"

	"unifier/internal/diagnostic"
	"unifier/internal/match"
	"unifier/internal/schema"
)

// Diagnostic codes reported by Validate.
const (
	CodeFileNil            = "file_is_nil"
	CodeUnsupportedVersion = "unsupported_version"
	CodeMissingName        = "missing_name"
	CodeDuplicateProvider  = "duplicate_provider"
	CodeEmptyIdent         = "empty_ident"
	CodeDuplicateField     = "duplicate_field"
	CodeInvalidField       = "invalid_field"
	CodeNoTransforms       = "no_transforms"
	CodeUnknownTarget      = "unknown_target"
	CodeMissingTarget      = "missing_target"
	CodeUnknownTargetField = "unknown_target_field"
	CodeDuplicateTarget    = "duplicate_target"
	CodeMissingSource      = "missing_source"
	CodeSourceAndDefault   = "source_and_default"
	CodeUnknownSourceField = "unknown_source_field"
	CodeMissingJoin        = "missing_join"
	CodeJoinIgnored        = "join_ignored"
	CodeUnsetTargetField   = "unset_target_field"
	CodeIncompatibleField  = "incompatible_field"
)

const maxSuggestions = 3

// Validate checks a definitions file against the registered canonical
// schemas and reports every problem found. Files with error diagnostics do
// not compile.
func Validate(f *File, schemas *schema.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(CodeFileNil, "provider definitions file is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError(CodeUnsupportedVersion,
			fmt.Sprintf("unsupported version %q, expected %q", f.Version, CurrentVersion), "", "version")
	}

	seen := map[string]struct{}{}

	for i := range f.Providers {
		pd := &f.Providers[i]

		scope := pd.Name
		if scope == "" {
			scope = fmt.Sprintf("providers[%d]", i)
			res.AddError(CodeMissingName, "provider must have a name", scope, "name")
		} else if _, dup := seen[pd.Name]; dup {
			res.AddError(CodeDuplicateProvider, fmt.Sprintf("provider %q is declared twice", pd.Name), scope, "name")
		}

		seen[pd.Name] = struct{}{}

		ident := validateIdent(res, scope, pd)

		if len(pd.Transforms) == 0 {
			res.AddWarning(CodeNoTransforms,
				"provider has no transforms; its records fail with a configuration error", scope, "transforms")
		}

		for _, target := range slices.Sorted(maps.Keys(pd.Transforms)) {
			tm := pd.Transforms[target]
			validateTarget(res, scope, target, &tm, ident, schemas)
		}
	}

	return res
}

// validateIdent returns the ident fields that are well-formed, by name.
func validateIdent(res *diagnostic.Diagnostics, scope string, pd *ProviderDef) map[string]schema.Field {
	fields := make(map[string]schema.Field, len(pd.Ident))

	if len(pd.Ident) == 0 {
		res.AddError(CodeEmptyIdent, "identification rule must declare at least one field", scope, "ident")
		return fields
	}

	declared := map[string]struct{}{}

	for j, fd := range pd.Ident {
		loc := fmt.Sprintf("ident[%d]", j)
		if fd.Name != "" {
			loc = "ident." + fd.Name
		}

		if _, dup := declared[fd.Name]; dup && fd.Name != "" {
			res.AddError(CodeDuplicateField, fmt.Sprintf("field %q is declared twice", fd.Name), scope, loc)
			continue
		}

		declared[fd.Name] = struct{}{}

		field, err := fd.Field()
		if err != nil {
			res.AddError(CodeInvalidField, err.Error(), scope, loc)
			continue
		}

		fields[field.Name] = field
	}

	return fields
}

func validateTarget(
	res *diagnostic.Diagnostics,
	scope, target string,
	tm *TargetMapping,
	ident map[string]schema.Field,
	schemas *schema.Registry,
) {
	base := "transforms." + target

	canonical, ok := schemas.Lookup(target)
	if !ok {
		res.AddError(CodeUnknownTarget, fmt.Sprintf("unknown target schema %q", target), scope, base,
			suggest(target, schemas.Names())...)

		return
	}

	identNames := slices.Sorted(maps.Keys(ident))
	assigned := map[string]struct{}{}

	for k := range tm.Fields {
		fm := &tm.Fields[k]

		loc := fmt.Sprintf("%s.fields[%d]", base, k)
		if fm.Target != "" {
			loc = base + "." + fm.Target
		}

		validateFieldMapping(res, scope, loc, fm, canonical, ident, identNames, assigned)
	}

	// fields that are neither assigned nor carried over under the same name
	// make every record of the provider fail validation
	for _, name := range canonical.FieldNames() {
		if _, ok := assigned[name]; ok {
			continue
		}

		if from, ok := ident[name]; ok {
			to, _ := canonical.Field(name)
			if err := incompatible(from, to); err != nil {
				res.AddError(CodeIncompatibleField, err.Error()+"; map it explicitly", scope, base+"."+name)
			}

			continue
		}

		res.AddError(CodeUnsetTargetField,
			fmt.Sprintf("target field %q is never set", name), scope, base+"."+name,
			suggest(name, identNames)...)
	}
}

func validateFieldMapping(
	res *diagnostic.Diagnostics,
	scope, loc string,
	fm *FieldMapping,
	canonical *schema.Schema,
	ident map[string]schema.Field,
	identNames []string,
	assigned map[string]struct{},
) {
	switch {
	case fm.Target == "":
		res.AddError(CodeMissingTarget, "field mapping must specify target", scope, loc)
	case !hasField(canonical, fm.Target):
		res.AddError(CodeUnknownTargetField,
			fmt.Sprintf("%s has no field %q", canonical.Name(), fm.Target), scope, loc,
			suggest(fm.Target, canonical.FieldNames())...)
	default:
		if _, dup := assigned[fm.Target]; dup {
			res.AddError(CodeDuplicateTarget, fmt.Sprintf("target field %q is assigned twice", fm.Target), scope, loc)
		}

		assigned[fm.Target] = struct{}{}
	}

	switch {
	case len(fm.Source) == 0 && fm.Default == nil:
		res.AddError(CodeMissingSource, "field mapping must specify source (or default)", scope, loc)
		return
	case len(fm.Source) > 0 && fm.Default != nil:
		res.AddError(CodeSourceAndDefault, "field mapping cannot have both source and default", scope, loc)
	}

	for _, src := range fm.Source {
		if _, ok := ident[src]; !ok {
			res.AddError(CodeUnknownSourceField,
				fmt.Sprintf("source field %q is not declared in ident", src), scope, loc,
				suggest(src, identNames)...)
		}
	}

	if fm.Source.IsSingle() {
		from, known := ident[fm.Source.First()]
		to, ok := canonical.Field(fm.Target)

		if known && ok {
			if err := incompatible(from, to); err != nil {
				res.AddError(CodeIncompatibleField, err.Error(), scope, loc)
			}
		}
	}

	switch {
	case fm.Source.IsMultiple() && fm.Join == nil:
		res.AddError(CodeMissingJoin, "several sources need a join separator", scope, loc)
	case !fm.Source.IsMultiple() && fm.Join != nil:
		res.AddWarning(CodeJoinIgnored, "join is ignored for a single source", scope, loc)
	}
}

func hasField(s *schema.Schema, name string) bool {
	_, ok := s.Field(name)
	return ok
}

func suggest(name string, candidates []string) []string {
	var out []string
	for _, c := range match.Rank(name, candidates).AboveThreshold(match.DefaultMinScore).Top(maxSuggestions) {
		out = append(out, c.Name)
	}

	return out
}
