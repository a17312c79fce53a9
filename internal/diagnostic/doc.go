// Package diagnostic collects structured, non-fatal findings.
//
// Two producers feed it:
//   - mapping validation, which reports every problem in a provider
//     definitions file at once instead of stopping at the first one
//   - the unifier under the skip policy, which records each rejected
//     record with its file, position and failure kind
package diagnostic
