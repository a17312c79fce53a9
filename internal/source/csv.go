package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"unifier/internal/record"
)

type delimited struct {
	reader *csv.Reader
	path   string
	format Format
	closer io.Closer
	line   int
}

// NewCSV reads comma separated records from r. The first row names the
// fields; rows shorter than the header get "" for the missing values and
// values past the header are dropped.
func NewCSV(r io.Reader, path string) Source {
	return newDelimited(r, path, FormatCSV, ',', nil)
}

// NewTSV is NewCSV for tab separated input.
func NewTSV(r io.Reader, path string) Source {
	return newDelimited(r, path, FormatTSV, '\t', nil)
}

func newDelimited(r io.Reader, path string, format Format, comma rune, closer io.Closer) *delimited {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	return &delimited{reader: cr, path: path, format: format, closer: closer}
}

func (d *delimited) Path() string   { return d.path }
func (d *delimited) Format() Format { return d.format }
func (d *delimited) Pos() int       { return d.line }

func (d *delimited) Close() error {
	if d.closer == nil {
		return nil
	}

	return d.closer.Close()
}

func (d *delimited) Records() iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		row, err := d.reader.Read()
		if errors.Is(err, io.EOF) {
			return
		}

		if err != nil {
			yield(nil, fmt.Errorf("%s: read header: %w", d.path, err))
			return
		}

		header := make([]string, len(row))
		copy(header, row)

		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], "\ufeff")
		}

		for {
			row, err := d.reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				yield(nil, fmt.Errorf("%s: %w", d.path, err))
				return
			}

			d.line, _ = d.reader.FieldPos(0)

			rec := make(record.Record, len(header))
			for i, name := range header {
				if i < len(row) {
					rec[name] = row[i]
				} else {
					rec[name] = ""
				}
			}

			if !yield(rec, nil) {
				return
			}
		}
	}
}
