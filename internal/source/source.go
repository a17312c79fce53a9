package source

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"unifier/internal/record"
)

// ErrUnsupportedType is returned by Open for files no reader handles.
var ErrUnsupportedType = errors.New("unsupported input type")

// Format is an input encoding.
type Format int

const (
	_ Format = iota
	FormatCSV
	FormatTSV
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Source yields the records of one input.
type Source interface {
	// Path is the name the source was opened with.
	Path() string
	// Format is the input encoding.
	Format() Format
	// Records yields records in input order. A read error is yielded
	// once, with a nil record, and ends the sequence. Records can be
	// ranged over once.
	Records() iter.Seq2[record.Record, error]
	// Pos locates the last yielded record: its line for CSV and TSV, its
	// ordinal for JSON.
	Pos() int
	// Close releases the underlying file.
	Close() error
}

// Detect returns the format of the file at path and the MIME type that
// decided it.
func Detect(path string) (Format, string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return 0, "", fmt.Errorf("detect type of %s: %w", path, err)
	}

	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("text/csv"):
			return FormatCSV, mt.String(), nil
		case m.Is("text/tab-separated-values"):
			return FormatTSV, mt.String(), nil
		case m.Is("application/json"), m.Is("application/x-ndjson"):
			return FormatJSON, mt.String(), nil
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, mt.String(), nil
	case ".tsv":
		return FormatTSV, mt.String(), nil
	case ".json", ".ndjson", ".jsonl":
		return FormatJSON, mt.String(), nil
	}

	if mt.Is("text/plain") {
		return FormatCSV, mt.String(), nil
	}

	return 0, mt.String(), fmt.Errorf("%w: %s is %s", ErrUnsupportedType, path, mt.String())
}

// Open detects the format of path and opens a reader for it.
func Open(path string) (Source, error) {
	format, _, err := Detect(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	switch format {
	case FormatTSV:
		return newDelimited(f, path, FormatTSV, '\t', f), nil
	case FormatJSON:
		return newJSON(f, path, f), nil
	default:
		return newDelimited(f, path, FormatCSV, ',', f), nil
	}
}
