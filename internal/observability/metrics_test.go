package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.RecordRun(StatusOK)
	m.RecordRun(StatusOK)
	m.RecordRun(StatusCancelled)
	m.RecordRun(StatusDeadlineExceeded)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusCancelled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusDeadlineExceeded)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusError)))
}

func TestPathDone(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	for i := 0; i < 25; i++ {
		m.PathDone()
	}

	assert.Equal(t, 25.0, testutil.ToFloat64(m.MonteCarloPaths))
}

func TestObserveStage(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.ObserveStage(StageBacktest, time.Now().Add(-10*time.Millisecond))

	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRun(StatusOK)
		m.ObserveStage(StageMonteCarlo, time.Now())
		m.PathDone()
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)
	m.RecordRun(StatusInvalid)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_simulation_runs_total{status="invalid"} 1`))
}
