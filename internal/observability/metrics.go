// Package observability provides Prometheus metrics for the simulation service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run statuses
const (
	StatusOK               = "ok"
	StatusInvalid          = "invalid"
	StatusCancelled        = "cancelled"
	StatusDeadlineExceeded = "deadline_exceeded"
	StatusError            = "error"
)

// Stage names
const (
	StageProjection  = "projection"
	StageMonteCarlo  = "monte_carlo"
	StageBacktest    = "backtest"
	StageCorrelation = "correlation"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	RunsTotal       *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	MonteCarloPaths prometheus.Counter

	// RPC metrics
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	// Persistence metrics
	RunsStored      prometheus.Counter
	RunStoreErrors  prometheus.Counter
	ScenariosSeeded prometheus.Counter
}

// NewMetrics creates a Metrics instance registered on reg.
// A nil reg registers on the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "wealthflow_risk"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by status",
		}, []string{"status"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "stage_duration_seconds",
			Help:      "Simulation stage duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"stage"}),
		MonteCarloPaths: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "monte_carlo_paths_total",
			Help:      "Total number of Monte Carlo paths simulated",
		}),

		RPCRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "Total number of gRPC requests by method and code",
		}, []string{"method", "code"}),
		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "gRPC request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		RunsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "runs_stored_total",
			Help:      "Total number of run summaries stored",
		}),
		RunStoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "run_store_errors_total",
			Help:      "Total number of failed run summary writes",
		}),
		ScenariosSeeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "scenarios_seeded_total",
			Help:      "Total number of built-in scenarios inserted by the seeder",
		}),
	}
}

// RecordRun increments the run counter for status. Safe on a nil receiver.
func (m *Metrics) RecordRun(status string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

// ObserveStage records how long a stage took since start. Safe on a nil receiver.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// PathDone counts one Monte Carlo path. Safe on a nil receiver.
func (m *Metrics) PathDone() {
	if m == nil {
		return
	}
	m.MonteCarloPaths.Inc()
}

// Handler returns an HTTP handler for the metrics registered on g.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
