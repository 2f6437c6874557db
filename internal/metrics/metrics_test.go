package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/steadyspace/internal/metrics"
	"github.com/katalvlaran/steadyspace/steady"
)

func TestRecordSolve(t *testing.T) {
	m := metrics.New()
	m.RecordSolve("toggle", metrics.OutcomeComplete, steady.Stats{Nodes: 6, Prunes: 2, Solutions: 2}, 10*time.Millisecond)
	m.RecordSolve("toggle", metrics.OutcomeLimited, steady.Stats{Nodes: 3, Prunes: 1, Solutions: 1}, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolvesTotal.WithLabelValues("toggle", metrics.OutcomeComplete)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolvesTotal.WithLabelValues("toggle", metrics.OutcomeLimited)))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.NodesTotal.WithLabelValues("toggle")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PrunesTotal.WithLabelValues("toggle")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StatesTotal.WithLabelValues("toggle")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SolveDuration))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.StatesTotal.WithLabelValues("x").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.StatesTotal.WithLabelValues("x")))
}

func TestWriteFile(t *testing.T) {
	m := metrics.New()
	m.RecordSolve("toggle", metrics.OutcomeComplete, steady.Stats{Solutions: 2}, time.Millisecond)
	m.ModelsInFlight.Set(0)

	path := filepath.Join(t.TempDir(), "steadyspace.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `steadyspace_steady_states_total{model="toggle"} 2`), text)
	assert.Contains(t, text, "steadyspace_solve_duration_seconds_bucket")

	assert.Error(t, m.WriteFile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
