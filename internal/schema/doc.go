// Package schema provides the canonical record shapes and the generic
// validator that interprets them.
//
// A Schema is a named, ordered list of Field declarations. Each Field names
// a primitive kind (string, integer, float, date, enum) and an optional
// Constraint (numeric bounds, a strftime-style date format, enum values,
// blank handling). The same structure is used for two purposes:
//
//   - canonical output shapes such as CSV_V1, where field order defines the
//     column order of serialized output;
//   - provider identification rules, which are checked against raw input
//     records to decide which upstream source produced them.
//
// Validation is permissive on input and strict on declared fields: fields a
// schema does not declare are ignored and never copied to the result, while
// every declared field must be present and satisfy its constraint. Missing
// fields are never synthesized.
//
// # Coercion
//
// Raw sources carry loosely typed values (CSV yields only strings, JSON
// yields json.Number), so numeric kinds accept numeric strings and
// json.Number in addition to Go numbers. Numbers are parsed exactly with
// shopspring/decimal before bounds are compared. Dates must be strings that
// parse under the field's format; the validated value is re-rendered in
// that same format.
package schema
