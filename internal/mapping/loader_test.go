package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "providers.yaml"))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, f.Version)
	require.Len(t, f.Providers, 2)

	bank4 := f.Providers[0]
	assert.Equal(t, "bank4", bank4.Name)
	require.Len(t, bank4.Ident, 6)
	assert.Equal(t, "%d/%m/%Y", bank4.Ident[0].Format)
	assert.Equal(t, []string{"remove", "add"}, bank4.Ident[1].Values)
	require.NotNil(t, bank4.Ident[2].Gte)
	assert.Equal(t, 0.0, *bank4.Ident[2].Gte)

	// 121 is expanded, sorted by source, ahead of the explicit fields
	tm := bank4.Transforms["CSV_V1"]
	assert.Nil(t, tm.OneToOne)

	targets := make([]string, 0, len(tm.Fields))
	for _, fm := range tm.Fields {
		targets = append(targets, fm.Target)
	}

	assert.Equal(t, []string{"timestamp", "type", "to", "from", "amount"}, targets)
	assert.Equal(t, StringOrArray{"whole", "fraction"}, tm.Fields[4].Source)
	require.NotNil(t, tm.Fields[4].Join)
	assert.Equal(t, ".", *tm.Fields[4].Join)

	ledger := f.Providers[1]
	assert.True(t, ledger.Ident[4].AllowBlank)
	require.NotNil(t, ledger.Transforms["CSV_V1"].Fields[0].Default)
	assert.Equal(t, "add", *ledger.Transforms["CSV_V1"].Fields[0].Default)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, f.Version)
	assert.Empty(t, f.Providers)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`
providers:
  - name: p
    idnet:
      - {name: a, kind: string}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idnet")
}

func TestStringOrArray(t *testing.T) {
	f, err := Parse([]byte(`
providers:
  - name: p
    ident: [{name: a, kind: string}, {name: b, kind: string}]
    transforms:
      CSV_V1:
        fields:
          - {target: type, source: a}
          - {target: memo, source: [a, b], join: " "}
          - {target: blank, source: ""}
`))
	require.NoError(t, err)

	fields := f.Providers[0].Transforms["CSV_V1"].Fields
	assert.True(t, fields[0].Source.IsSingle())
	assert.Equal(t, "a", fields[0].Source.First())
	assert.True(t, fields[1].Source.IsMultiple())
	assert.Empty(t, fields[2].Source)
	assert.Equal(t, "", fields[2].Source.First())

	_, err = Parse([]byte(`
providers:
  - name: p
    transforms:
      CSV_V1:
        fields:
          - {target: type, source: {a: b}}
`))
	assert.Error(t, err)
}
