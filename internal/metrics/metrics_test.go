package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.FileProcessed()
	m.RecordRead()
	m.RecordRead()
	m.RecordEmitted("bank1")
	m.RecordRejected("unknown_source")
	m.ObserveRun(1500 * time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.files), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.read), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.emitted.WithLabelValues("bank1")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.rejected.WithLabelValues("unknown_source")), 0)
	assert.InDelta(t, 1.5, testutil.ToFloat64(m.duration), 0.0001)

	expected := `
# HELP unifier_records_emitted_total Canonical records written, by provider.
# TYPE unifier_records_emitted_total counter
unifier_records_emitted_total{provider="bank1"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "unifier_records_emitted_total"))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.FileProcessed()
		m.RecordRead()
		m.RecordEmitted("bank1")
		m.RecordRejected("schema_mismatch")
		m.ObserveRun(time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.RecordEmitted("bank2")

	path := filepath.Join(t.TempDir(), "unifier.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `unifier_records_emitted_total{provider="bank2"} 1`)
	assert.Contains(t, string(data), "unifier_records_read_total 0")

	assert.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
