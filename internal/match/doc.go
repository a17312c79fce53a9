// Package match scores how close two field names are.
//
// It is used to turn "record does not match any provider" into something a
// person can act on: when a record is rejected, the fields it carries are
// compared against the fields a provider expects and likely typos are
// reported (ammount -> amount, DateReadable -> date_readable).
//
// Key functions:
//   - NormalizeIdent: folds case and separators out of a field name
//   - Levenshtein: computes edit distance between strings
//   - Rank: orders candidate names by similarity to a wanted name
//   - Pair: pairs missing fields with the unexpected fields that resemble them
package match
