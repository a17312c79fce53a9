package record

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Record is one entry of an input source. Values are whatever the reader
// produced: strings for CSV, json.Number/string/bool/nil for JSON, or any
// Go scalar when records are built in code.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are scalars, so a
// shallow copy is enough to keep transforms from mutating their input.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}

	return maps.Clone(r)
}

// Fields returns the record's field names in sorted order.
func (r Record) Fields() []string {
	return slices.Sorted(maps.Keys(r))
}

// Has reports whether the field is present (even if its value is nil).
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Text renders a scalar field the way it would appear in a text file.
// Strings are returned trimmed and unchanged otherwise; numbers use the
// shortest representation that round-trips.
func (r Record) Text(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}

	return Scalar(v), true
}

// Scalar renders a single scalar value as text.
func Scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
