package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_IsSingleton(t *testing.T) {
	assert.Same(t, New(), New())
}

func TestRecordAnalysis(t *testing.T) {
	m := New()
	before := testutil.ToFloat64(m.AnalysisRunsTotal.WithLabelValues(OutcomeSuperseded))

	m.RecordAnalysis(OutcomeSuperseded, 20*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(m.AnalysisRunsTotal.WithLabelValues(OutcomeSuperseded)))
}

func TestRecordSkipped_IgnoresZero(t *testing.T) {
	m := New()
	before := testutil.ToFloat64(m.LogsSkippedTotal.WithLabelValues(ReasonOutOfRange))

	m.RecordSkipped(ReasonOutOfRange, 0)
	m.RecordSkipped(ReasonOutOfRange, 3)

	assert.Equal(t, before+3, testutil.ToFloat64(m.LogsSkippedTotal.WithLabelValues(ReasonOutOfRange)))
}

func TestRecordRequest(t *testing.T) {
	m := New()
	before := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))

	m.RecordRequest("GET", "/health", "200")

	assert.Equal(t, before+1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
}
