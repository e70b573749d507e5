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

func TestObserveCommand(t *testing.T) {
	p := NewPrometheus()
	p.ObserveCommand("ar", true, time.Millisecond)
	p.ObserveCommand("ar", true, time.Millisecond)
	p.ObserveCommand("dr", false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.commands.WithLabelValues("ar", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.commands.WithLabelValues("dr", OutcomeError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.commands.WithLabelValues("dr", OutcomeSuccess)))
	assert.Equal(t, 2, testutil.CollectAndCount(p.durations))
}

func TestObserveRestoreAndSize(t *testing.T) {
	p := NewPrometheus()
	p.ObserveRestore(false)
	p.ObserveRestore(true)
	p.SetLibrarySize(12, 3)

	expected := `
# HELP shelf_restores_total Snapshot restores, by outcome.
# TYPE shelf_restores_total counter
shelf_restores_total{outcome="error"} 1
shelf_restores_total{outcome="success"} 1
`
	require.NoError(t, testutil.CollectAndCompare(p.restores, strings.NewReader(expected)))
	assert.Equal(t, 12.0, testutil.ToFloat64(p.records))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.collections))
}

func TestWriteTextfile(t *testing.T) {
	p := NewPrometheus()
	p.ObserveCommand("pL", true, time.Microsecond)
	p.SetLibrarySize(1, 0)

	path := filepath.Join(t.TempDir(), "shelf.prom")
	require.NoError(t, p.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `shelf_commands_total{command="pL",outcome="success"} 1`)
	assert.Contains(t, string(raw), "shelf_records 1")
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := NewPrometheus().WriteTextfile(filepath.Join(t.TempDir(), "missing", "shelf.prom"))
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.ObserveCommand("qq", true, 0)
	r.ObserveRestore(true)
	r.SetLibrarySize(0, 0)
}
