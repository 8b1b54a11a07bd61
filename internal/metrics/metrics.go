// Package metrics holds the Prometheus collectors for the breathe backend.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis outcomes
const (
	OutcomeSuccess      = "success"
	OutcomeSuperseded   = "superseded"
	OutcomeError        = "error"
	OutcomeInsufficient = "insufficient_data"
)

// Skip reasons
const (
	ReasonMalformedTimestamp  = "malformed_timestamp"
	ReasonOutOfRange          = "out_of_range"
	ReasonUnrecognizedTrigger = "unrecognized_trigger"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the analysis pipeline and HTTP layer.
type Metrics struct {
	AnalysisRunsTotal *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	LogFetchDuration  *prometheus.HistogramVec
	LogsSkippedTotal  *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
}

// New creates and registers the collectors on the default registry. It is
// safe to call more than once; registration happens on the first call only.
//
// Metrics:
//   - breathe_analysis_runs_total{outcome}
//   - breathe_analysis_duration_seconds
//   - breathe_log_fetch_duration_seconds{kind}
//   - breathe_logs_skipped_total{reason}
//   - breathe_http_requests_total{method,route,status}
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			AnalysisRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "breathe_analysis_runs_total",
					Help: "Total number of wellness analysis passes by outcome",
				},
				[]string{"outcome"},
			),

			AnalysisDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "breathe_analysis_duration_seconds",
					Help:    "Duration of a full analysis pass including log fetches",
					Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
				},
			),

			LogFetchDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "breathe_log_fetch_duration_seconds",
					Help:    "Duration of wellness log fetches by log kind",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"kind"}, // mood, energy, focus, sleep, craving
			),

			LogsSkippedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "breathe_logs_skipped_total",
					Help: "Total number of log data-quality issues seen during analysis",
				},
				[]string{"reason"},
			),

			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "breathe_http_requests_total",
					Help: "Total number of HTTP requests served",
				},
				[]string{"method", "route", "status"},
			),
		}
	})

	return globalMetrics
}

// RecordAnalysis records one finished analysis pass.
func (m *Metrics) RecordAnalysis(outcome string, elapsed time.Duration) {
	m.AnalysisRunsTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

// RecordFetch records the duration of one log-kind fetch.
func (m *Metrics) RecordFetch(kind string, elapsed time.Duration) {
	m.LogFetchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordSkipped adds n data-quality issues for reason. Zero is ignored.
func (m *Metrics) RecordSkipped(reason string, n int) {
	if n <= 0 {
		return
	}
	m.LogsSkippedTotal.WithLabelValues(reason).Add(float64(n))
}

// RecordRequest counts one served HTTP request.
func (m *Metrics) RecordRequest(method, route, status string) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}
