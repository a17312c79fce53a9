// Package unify runs input files through the normalization pipeline into a
// single CSV output.
//
// Inputs are checked before anything is written: every path must name a
// regular file of a supported type. Files are then processed in order and
// their records emitted in input order under one header. A record that
// fails normalization either stops the run (PolicyAbort) or is recorded in
// the report and dropped (PolicySkip). Configuration errors always stop
// the run. The output file only appears once the run succeeds.
package unify
