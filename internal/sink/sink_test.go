package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifier/internal/record"
	"unifier/internal/schema"
)

func canonical(t *testing.T, rec record.Record) *schema.Canonical {
	t.Helper()

	c, err := schema.CSVV1().Validate(rec)
	require.NoError(t, err)

	return c
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer

	c, err := NewCSV(&buf, schema.CSVV1())
	require.NoError(t, err)

	require.NoError(t, c.Emit(canonical(t, record.Record{"timestamp": "2019-10-02", "type": "add", "amount": "2000.20", "from": "188", "to": "198"})))
	require.NoError(t, c.Emit(canonical(t, record.Record{"type": "remove", "to": 182, "from": 198, "amount": 99.2, "timestamp": "2019-10-01"})))
	require.NoError(t, c.Flush())

	assert.Equal(t, 2, c.Rows())
	assert.Equal(t, "timestamp,type,amount,from,to\n"+
		"2019-10-02,add,2000.2,188,198\n"+
		"2019-10-01,remove,99.2,198,182\n", buf.String())
}

func TestCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer

	c, err := NewCSV(&buf, schema.CSVV1())
	require.NoError(t, err)
	require.NoError(t, c.Flush())

	assert.Equal(t, "timestamp,type,amount,from,to\n", buf.String())
}

func TestCSV_RejectsOtherSchema(t *testing.T) {
	other := schema.MustNew("OTHER", schema.String("id"))

	rec, err := other.Validate(record.Record{"id": "x"})
	require.NoError(t, err)

	c, err := NewCSV(&bytes.Buffer{}, schema.CSVV1())
	require.NoError(t, err)

	assert.ErrorIs(t, c.Emit(rec), ErrSchemaMismatch)
	assert.Zero(t, c.Rows())
}

func TestFile_Commit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "res.csv")

	f, err := CreateFile(path, schema.CSVV1())
	require.NoError(t, err)
	assert.Equal(t, path, f.Path())

	require.NoError(t, f.Emit(canonical(t, record.Record{"timestamp": "2019-10-02", "type": "add", "amount": "1", "from": "1", "to": "2"})))

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, f.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,type,amount,from,to\n2019-10-02,add,1,1,2\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFile_Discard(t *testing.T) {
	dir := t.TempDir()

	f, err := CreateFile(filepath.Join(dir, "res.csv"), schema.CSVV1())
	require.NoError(t, err)

	f.Discard()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateFile_MissingDir(t *testing.T) {
	_, err := CreateFile(filepath.Join(t.TempDir(), "nope", "res.csv"), schema.CSVV1())
	assert.Error(t, err)
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name, suffix, want string
	}{
		{"res", "csv", "res.csv"},
		{"res", ".csv", "res.csv"},
		{"res.json", ".csv", "res.csv"},
		{"archive.tar.gz", "csv", "archive.tar.csv"},
		{".csv", "csv", "res.csv"},
		{"out", "", "out.txt"},
		{filepath.Join("dir.v2", "out"), "csv", filepath.Join("dir.v2", "out") + ".csv"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputFilename(tt.name, tt.suffix), "%q %q", tt.name, tt.suffix)
	}
}

func TestOutputFilename_Random(t *testing.T) {
	a := OutputFilename("", "csv")
	b := OutputFilename("", "csv")

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{10}\.csv$`), a)
	assert.NotEqual(t, a, b)
}
