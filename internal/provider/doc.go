// Package provider defines upstream record providers.
//
// A Provider couples an identification rule, a schema.Schema that raw
// records are checked against to decide whether the provider produced
// them, with a table of transforms keyed by canonical target schema name.
// Providers are immutable after construction and hold no per-record state.
//
// Transforms are pure: they receive a private copy of the raw record and
// return the record rewritten toward the target shape. Final conformance is
// checked by the caller against the target schema. A transform must be
// total over the records its identification rule accepts, so date and
// number parsing inside a transform uses exactly the formats the rule
// declares.
package provider
