// Package normalize turns raw records into canonical records.
//
// Normalization of one record is identify, then transform, then validate:
//
//	raw record ──► catalog.Identify ──► provider.Transform ──► schema.Validate ──► canonical
//
// Every failure is returned as an *Error whose Kind says which stage
// failed. Configuration failures (unknown target schema, provider without
// a transform for the target) are fatal for a run; the other kinds are
// attributable to a single record and the caller decides whether to skip
// it or stop.
package normalize
