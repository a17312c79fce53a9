package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Clone(t *testing.T) {
	orig := Record{"a": "1", "b": 2}
	cp := orig.Clone()
	cp["a"] = "changed"
	cp["c"] = true

	assert.Equal(t, "1", orig["a"])
	assert.False(t, orig.Has("c"))

	assert.Equal(t, Record{}, Record(nil).Clone())
}

func TestRecord_Fields(t *testing.T) {
	r := Record{"to": 1, "from": 2, "amount": 3}
	assert.Equal(t, []string{"amount", "from", "to"}, r.Fields())
}

func TestRecord_Text(t *testing.T) {
	r := Record{
		"str":    "  1060 ",
		"num":    json.Number("6"),
		"float":  2000.2,
		"whole":  1060.0,
		"int":    188,
		"int64":  int64(198),
		"null":   nil,
		"truthy": true,
	}

	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{"str", "1060", true},
		{"num", "6", true},
		{"float", "2000.2", true},
		{"whole", "1060", true},
		{"int", "188", true},
		{"int64", "198", true},
		{"truthy", "true", true},
		{"null", "", false},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := r.Text(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
