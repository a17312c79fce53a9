package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"unifier/internal/record"
)

type jsonSource struct {
	reader *bufio.Reader
	path   string
	closer io.Closer
	n      int
}

// NewJSON reads records from r holding a single object, an array of
// objects or a stream of objects such as newline-delimited JSON.
func NewJSON(r io.Reader, path string) Source {
	return newJSON(r, path, nil)
}

func newJSON(r io.Reader, path string, closer io.Closer) *jsonSource {
	return &jsonSource{reader: bufio.NewReader(r), path: path, closer: closer}
}

func (j *jsonSource) Path() string   { return j.path }
func (j *jsonSource) Format() Format { return FormatJSON }
func (j *jsonSource) Pos() int       { return j.n }

func (j *jsonSource) Close() error {
	if j.closer == nil {
		return nil
	}

	return j.closer.Close()
}

func (j *jsonSource) Records() iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		first, err := j.peek()
		if errors.Is(err, io.EOF) {
			return
		}

		if err != nil {
			yield(nil, fmt.Errorf("%s: %w", j.path, err))
			return
		}

		dec := json.NewDecoder(j.reader)
		dec.UseNumber()

		if first == '[' {
			j.array(dec, yield)
			return
		}

		for {
			var rec record.Record

			err := dec.Decode(&rec)
			if errors.Is(err, io.EOF) {
				return
			}

			if !j.emit(rec, err, yield) {
				return
			}
		}
	}
}

func (j *jsonSource) array(dec *json.Decoder, yield func(record.Record, error) bool) {
	if _, err := dec.Token(); err != nil {
		yield(nil, fmt.Errorf("%s: %w", j.path, err))
		return
	}

	for dec.More() {
		var rec record.Record

		if !j.emit(rec, dec.Decode(&rec), yield) {
			return
		}
	}

	if _, err := dec.Token(); err != nil {
		yield(nil, fmt.Errorf("%s: %w", j.path, err))
		return
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		yield(nil, fmt.Errorf("%s: unexpected data after the top-level array", j.path))
	}
}

// emit yields one decoded element and reports whether to go on.
func (j *jsonSource) emit(rec record.Record, err error, yield func(record.Record, error) bool) bool {
	j.n++

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		yield(nil, fmt.Errorf("%s: record %d is not an object", j.path, j.n))
		return false
	}

	if err != nil {
		yield(nil, fmt.Errorf("%s: record %d: %w", j.path, j.n, err))
		return false
	}

	if rec == nil {
		yield(nil, fmt.Errorf("%s: record %d is null", j.path, j.n))
		return false
	}

	return yield(rec, nil)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// peek skips a leading byte order mark and returns the first non-space
// byte without consuming it.
func (j *jsonSource) peek() (byte, error) {
	if head, _ := j.reader.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		if _, err := j.reader.Discard(len(utf8BOM)); err != nil {
			return 0, err
		}
	}

	for {
		b, err := j.reader.ReadByte()
		if err != nil {
			return 0, err
		}

		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}

		return b, j.reader.UnreadByte()
	}
}
