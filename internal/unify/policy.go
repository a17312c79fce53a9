package unify

import "fmt"

// Policy decides what happens to a record that fails normalization.
type Policy string

const (
	// PolicyAbort stops at the first failing record.
	PolicyAbort Policy = "abort"
	// PolicySkip drops failing records and keeps going.
	PolicySkip Policy = "skip"
)

// ParsePolicy parses "abort" or "skip". The empty string is PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want %s or %s)", s, PolicyAbort, PolicySkip)
	}
}
