package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"unifier/internal/schema"
)

// ErrSchemaMismatch is returned by Emit for a record of another schema.
var ErrSchemaMismatch = errors.New("record belongs to another schema")

// CSV writes canonical records of one schema as CSV with a single header
// row in schema field order.
type CSV struct {
	w      *csv.Writer
	schema *schema.Schema
	rows   int
}

// NewCSV writes the header for s to w and returns the sink.
func NewCSV(w io.Writer, s *schema.Schema) (*CSV, error) {
	c := &CSV{w: csv.NewWriter(w), schema: s}

	if err := c.w.Write(s.FieldNames()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	return c, nil
}

// Emit appends one record.
func (c *CSV) Emit(rec *schema.Canonical) error {
	if rec.Schema() != c.schema {
		return fmt.Errorf("%w: got %s, sink writes %s", ErrSchemaMismatch, rec.Schema().Name(), c.schema.Name())
	}

	if err := c.w.Write(rec.Strings()); err != nil {
		return fmt.Errorf("write row %d: %w", c.rows+1, err)
	}

	c.rows++

	return nil
}

// Rows returns the number of records emitted.
func (c *CSV) Rows() int {
	return c.rows
}

// Flush writes buffered rows to the underlying writer.
func (c *CSV) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// File is a CSV sink backed by a file that only appears at its final path
// once Commit succeeds.
type File struct {
	*CSV

	path string
	tmp  *os.File
}

// CreateFile starts writing records of s to path. Rows go to a temporary
// file in the same directory until Commit.
func CreateFile(path string, s *schema.Schema) (*File, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create output for %s: %w", path, err)
	}

	c, err := NewCSV(tmp, s)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return nil, err
	}

	return &File{CSV: c, path: path, tmp: tmp}, nil
}

// Path returns the final output path.
func (f *File) Path() string {
	return f.path
}

// Commit flushes, closes and moves the file into place.
func (f *File) Commit() error {
	if err := f.Flush(); err != nil {
		f.Discard()
		return fmt.Errorf("flush %s: %w", f.path, err)
	}

	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("close %s: %w", f.path, err)
	}

	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("move output into place: %w", err)
	}

	return nil
}

// Discard drops everything written so far.
func (f *File) Discard() {
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}
