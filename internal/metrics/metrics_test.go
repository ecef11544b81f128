package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nodecolor/internal/colorize"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name   string
		report *colorize.Report
		want   string
	}{
		{"no graph", &colorize.Report{Err: colorize.ErrNoGraph}, OutcomeNoGraph},
		{"no column", &colorize.Report{Err: colorize.ErrNoColorColumn}, OutcomeNoColumn},
		{"success", &colorize.Report{Success: true}, OutcomeSuccess},
		{"partial", &colorize.Report{Failures: []*colorize.MalformedColorError{{}}}, OutcomePartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.report))
		})
	}
}

func TestObserveRun(t *testing.T) {
	m := New()
	m.ObserveRun(&colorize.Report{
		Policy:    colorize.PolicyIndependent,
		Processed: 3,
		Colored:   2,
		Failures: []*colorize.MalformedColorError{
			{NodeID: "x", Reason: colorize.ReasonInvalidHex},
		},
	}, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomePartial, "independent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.colored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.malformed.WithLabelValues(string(colorize.ReasonInvalidHex))))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRun(&colorize.Report{}, time.Second)
	m.ObserveImport("yaml")
	m.ObserveRequest("GET", 200)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveImport("csv")
	m.ObserveRequest("GET", 404)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `nodecolor_graphs_imported_total{format="csv"} 1`), body)
	assert.Contains(t, body, `nodecolor_http_requests_total{method="GET",status="404"} 1`)
}
