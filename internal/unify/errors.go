package unify

import (
	"errors"
	"fmt"

	"unifier/internal/source"
)

var (
	// ErrNotRegular is returned for an input path that is not a regular file.
	ErrNotRegular = errors.New("not a regular file")
	// ErrTarget is returned by New for a target missing from the registry.
	ErrTarget = errors.New("unknown target schema")
)

// RecordError locates a failed record.
type RecordError struct {
	File   string
	Format source.Format
	// Pos is the line of the record for delimited files and its ordinal
	// for JSON.
	Pos int
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.File, e.Location(), e.Err)
}

// Location renders Pos for the file's format.
func (e *RecordError) Location() string {
	return location(e.Format, e.Pos)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func location(f source.Format, pos int) string {
	if f == source.FormatJSON {
		return fmt.Sprintf("record %d", pos)
	}

	return fmt.Sprintf("line %d", pos)
}
