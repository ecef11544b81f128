// Package metrics exposes prometheus instrumentation for colorize runs,
// imports and the HTTP API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"nodecolor/internal/colorize"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes used as the "outcome" label
const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeNoGraph  = "no_graph"
	OutcomeNoColumn = "no_column"
)

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	colored      prometheus.Counter
	malformed    *prometheus.CounterVec
	runDuration  prometheus.Histogram
	imports      *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

// New creates and registers every collector
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nodecolor_colorize_runs_total",
			Help: "colorize runs by outcome",
		}, []string{"outcome", "policy"}),
		colored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nodecolor_nodes_colored_total",
			Help: "nodes assigned a render color",
		}),
		malformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nodecolor_malformed_colors_total",
			Help: "color values that could not be applied, by reason",
		}, []string{"reason"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nodecolor_colorize_duration_seconds",
			Help:    "time spent in a colorize run including persistence",
			Buckets: prometheus.DefBuckets,
		}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nodecolor_graphs_imported_total",
			Help: "graphs imported by format",
		}, []string{"format"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nodecolor_http_requests_total",
			Help: "HTTP requests by method and status",
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		m.runs,
		m.colored,
		m.malformed,
		m.runDuration,
		m.imports,
		m.httpRequests,
	)
	return m
}

// ObserveRun records a finished colorize run
func (m *Metrics) ObserveRun(report *colorize.Report, elapsed time.Duration) {
	if m == nil || report == nil {
		return
	}
	m.runs.WithLabelValues(Outcome(report), string(report.Policy)).Inc()
	m.colored.Add(float64(report.Colored))
	for _, f := range report.Failures {
		m.malformed.WithLabelValues(string(f.Reason)).Inc()
	}
	m.runDuration.Observe(elapsed.Seconds())
}

// ObserveImport records an imported graph
func (m *Metrics) ObserveImport(format string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(format).Inc()
}

// ObserveRequest records a served HTTP request
func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Outcome classifies a report for the "outcome" label
func Outcome(report *colorize.Report) string {
	switch {
	case errors.Is(report.Err, colorize.ErrNoGraph):
		return OutcomeNoGraph
	case errors.Is(report.Err, colorize.ErrNoColorColumn):
		return OutcomeNoColumn
	case report.Success:
		return OutcomeSuccess
	default:
		return OutcomePartial
	}
}
