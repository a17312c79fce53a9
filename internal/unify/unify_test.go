package unify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifier/internal/catalog"
	"unifier/internal/logger"
	"unifier/internal/metrics"
	"unifier/internal/normalize"
	"unifier/internal/record"
	"unifier/internal/schema"
	"unifier/internal/sink"
	"unifier/internal/source"
)

const (
	bank1CSV = `timestamp,type,amount,from,to
Oct 1 2019,remove,99.20,198,182
Oct 2 2019,add,2000.20,188,198
`
	bank2CSV = `date,transaction,amounts,to,from
03-10-2019,remove,1060.60,182,198
`
	bank3JSON = `[{"date_readable": "5 Oct 2019", "type": "remove", "euro": 5, "cents": 7, "to": 182, "from": 198}]`

	header = "timestamp,type,amount,from,to\n"
)

func input(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func newUnifier(t *testing.T, opts ...Option) (*Unifier, string) {
	t.Helper()

	out := filepath.Join(t.TempDir(), "res")

	u, err := New(normalize.New(catalog.Default(), schema.Default()), schema.CSVV1Name, append([]Option{WithOutput(out)}, opts...)...)
	require.NoError(t, err)

	return u, out + ".csv"
}

func TestUnify(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		input(t, dir, "bank1.csv", bank1CSV),
		input(t, dir, "bank2.csv", bank2CSV),
		input(t, dir, "bank3.json", bank3JSON),
	}

	u, out := newUnifier(t)
	assert.Equal(t, out, u.Output())

	report, err := u.Unify(t.Context(), files...)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, header+
		"2019-10-01,remove,99.2,198,182\n"+
		"2019-10-02,add,2000.2,188,198\n"+
		"2019-10-03,remove,1060.6,198,182\n"+
		"2019-10-05,remove,5.7,198,182\n", string(data))

	assert.Equal(t, out, report.Output)
	assert.Equal(t, 4, report.Read())
	assert.Equal(t, 4, report.Emitted())
	assert.Equal(t, report.Emitted(), report.Rows)
	assert.Zero(t, report.Skipped())
	assert.Equal(t, map[string]int{"bank1": 2, "bank2": 1, "bank3": 1}, report.Providers)
	assert.Equal(t, []string{"bank1", "bank2", "bank3"}, report.ProviderNames())
	require.Len(t, report.Files, 3)
	assert.Equal(t, FileReport{Path: files[2], Format: source.FormatJSON, Read: 1, Emitted: 1}, report.Files[2])
	assert.True(t, report.Diagnostics.IsValid())
}

func TestUnify_NoInputs(t *testing.T) {
	u, out := newUnifier(t)

	report, err := u.Unify(t.Context())
	require.NoError(t, err)
	assert.Zero(t, report.Emitted())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, header, string(data))
}

func TestUnify_Abort(t *testing.T) {
	dir := t.TempDir()
	bad := input(t, dir, "bank1.csv", bank1CSV+"Oct 3 2019,add,1,2\n")

	u, out := newUnifier(t)

	report, err := u.Unify(t.Context(), bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, normalize.ErrUnknownSource)

	var rerr *RecordError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, bad, rerr.File)
	assert.Equal(t, 4, rerr.Pos)
	assert.Equal(t, "line 4", rerr.Location())
	assert.Contains(t, err.Error(), bad+": line 4: ")

	assert.Empty(t, report.Output)
	assert.Equal(t, 2, report.Emitted())

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnify_Skip(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		input(t, dir, "bank1.csv", bank1CSV+"Oct 3 2019,add,1,2,3,\n"),
		input(t, dir, "bank3.json", `[
  {"date_readable": "5 Oct 2019", "type": "remove", "euro": 0, "cents": 0, "to": 182, "from": 198},
  {"date_readable": "6 Oct 2019", "type": "add", "ammount": 5, "euro": 1, "cents": 0, "to": 182, "from": 198}
]`),
		input(t, dir, "other.json", `{"date_readable": "6 Oct 2019", "type": "add", "to": 1, "from": 2, "ammount": 3}`),
	}

	m := metrics.New()
	u, out := newUnifier(t, WithPolicy(PolicySkip), WithMetrics(m))

	report, err := u.Unify(t.Context(), files...)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, header+
		"2019-10-01,remove,99.2,198,182\n"+
		"2019-10-02,add,2000.2,188,198\n"+
		"2019-10-03,add,1,2,3\n"+
		"2019-10-06,add,1,198,182\n", string(data))

	assert.Equal(t, 6, report.Read())
	assert.Equal(t, 4, report.Emitted())
	assert.Equal(t, 2, report.Skipped())

	warnings := report.Diagnostics.Warnings
	require.Len(t, warnings, 2)
	assert.Equal(t, normalize.KindSchemaMismatch.String(), warnings[0].Code)
	assert.Equal(t, files[1], warnings[0].Scope)
	assert.Equal(t, "record 1", warnings[0].Location)
	assert.Equal(t, normalize.KindUnknownSource.String(), warnings[1].Code)
	assert.Equal(t, files[2], warnings[1].Scope)

	expected := `
# HELP unifier_records_rejected_total Records that failed normalization, by error kind.
# TYPE unifier_records_rejected_total counter
unifier_records_rejected_total{kind="schema_mismatch"} 1
unifier_records_rejected_total{kind="unknown_source"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "unifier_records_rejected_total"))
}

func TestUnify_ConfigurationErrorIsFatal(t *testing.T) {
	schemas := schema.Default()
	require.NoError(t, schemas.Register(schema.MustNew("CSV_V2", schema.String("id"))))

	dir := t.TempDir()
	out := filepath.Join(dir, "out", "res.csv")
	require.NoError(t, os.Mkdir(filepath.Dir(out), 0o700))

	u, err := New(normalize.New(catalog.Default(), schemas), "CSV_V2", WithPolicy(PolicySkip), WithOutput(out))
	require.NoError(t, err)

	var logs bytes.Buffer
	ctx := logger.ContextWithLogger(t.Context(), logger.NewLogger(&logger.Config{Level: logger.WarnLevel, Output: &logs}))

	_, err = u.Unify(ctx, input(t, dir, "bank1.csv", bank1CSV))
	require.Error(t, err)
	assert.True(t, normalize.IsFatal(err))
	assert.Contains(t, logs.String(), "Provider cannot produce the target")
	assert.Contains(t, logs.String(), "provider=bank1")

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnify_ChecksInputsFirst(t *testing.T) {
	dir := t.TempDir()
	good := input(t, dir, "bank1.csv", bank1CSV)
	binary := input(t, dir, "image.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	tests := []struct {
		name  string
		files []string
		want  error
	}{
		{"missing", []string{good, filepath.Join(dir, "nope.csv")}, os.ErrNotExist},
		{"directory", []string{good, dir}, ErrNotRegular},
		{"unsupported", []string{good, binary}, source.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, out := newUnifier(t)

			_, err := u.Unify(t.Context(), tt.files...)
			assert.ErrorIs(t, err, tt.want)

			_, err = os.Stat(out)
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

func TestUnify_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	u, _ := newUnifier(t)

	_, err := u.Unify(ctx, input(t, t.TempDir(), "bank1.csv", bank1CSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer

	w, err := sink.NewCSV(&buf, schema.CSVV1())
	require.NoError(t, err)

	u, _ := newUnifier(t)

	in := input(t, t.TempDir(), "bank2.csv", bank2CSV)

	report, err := u.Write(t.Context(), w, in)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Emitted())
	assert.Equal(t, 1, report.Rows)
	assert.Equal(t, header+"2019-10-03,remove,1060.6,198,182\n", buf.String())

	// a second run on the same sink appends
	report, err = u.Write(t.Context(), w, in)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Emitted())
	assert.Equal(t, 2, report.Rows)
}

func TestNew_Errors(t *testing.T) {
	p := normalize.New(catalog.Default(), schema.Default())

	_, err := New(p, "CSV_V9")
	assert.ErrorIs(t, err, ErrTarget)

	_, err = New(p, schema.CSVV1Name, WithPolicy("retry"))
	assert.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyAbort, "abort": PolicyAbort, "skip": PolicySkip} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePolicy("ignore")
	assert.Error(t, err)
}

func TestRecordError(t *testing.T) {
	cause := errors.New("boom")
	err := &RecordError{File: "a.json", Format: source.FormatJSON, Pos: 2, Err: cause}

	assert.Equal(t, "a.json: record 2: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestUnify_RejectedRecordsDumpedAtDebug(t *testing.T) {
	dir := t.TempDir()
	files := []string{input(t, dir, "other.json", `{"date_readable": "6 Oct 2019", "ammount": 3, "note": "zebra-42"}`)}

	for _, tt := range []struct {
		level logger.LogLevel
		dump  bool
	}{
		{logger.DebugLevel, true},
		{logger.InfoLevel, false},
	} {
		t.Run(string(tt.level), func(t *testing.T) {
			var buf bytes.Buffer

			ctx := logger.ContextWithLogger(t.Context(), logger.NewLogger(&logger.Config{Level: tt.level, Output: &buf}))

			u, _ := newUnifier(t, WithPolicy(PolicySkip))
			_, err := u.Unify(ctx, files...)
			require.NoError(t, err)

			assert.Contains(t, buf.String(), "Skipped record")
			assert.Equal(t, tt.dump, strings.Contains(buf.String(), "Rejected record"))
			assert.Equal(t, tt.dump, strings.Contains(buf.String(), "zebra-42"))
		})
	}
}

func TestDumped(t *testing.T) {
	rec := record.Record{"b": 2, "a": "x"}

	var s fmt.Stringer = dumped(rec)
	assert.Equal(t, dump.Sdump(rec), s.String())
	assert.Less(t, strings.Index(s.String(), `"a"`), strings.Index(s.String(), `"b"`))
}
