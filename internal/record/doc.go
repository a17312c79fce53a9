// Package record defines the raw record exchanged between record sources
// and the normalization core: an unordered mapping from field name to an
// untyped scalar value.
package record
