package schema

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=FieldKind -trimprefix=Kind -output=kind_string.go

// FieldKind is the primitive type of a schema field.
type FieldKind int

const (
	_ FieldKind = iota // zero value is an invalid kind

	KindString
	KindInteger
	KindFloat
	KindDate
	KindEnum
)

// IsValid reports whether k is one of the declared kinds.
func (k FieldKind) IsValid() bool {
	return k >= KindString && k <= KindEnum
}

// IsNumber reports whether bounds apply to the kind.
func (k FieldKind) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInteger, KindFloat:
		return true
	}
}

// ParseKind resolves a kind from its name, case-insensitively
// ("string", "integer", "float", "date", "enum"). "int" is accepted as an
// alias of "integer".
func ParseKind(name string) (FieldKind, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "int") {
		return KindInteger, nil
	}

	for k := KindString; k <= KindEnum; k++ {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}

	return 0, fmt.Errorf("unknown field kind %q", name)
}
