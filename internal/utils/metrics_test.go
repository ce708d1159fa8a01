package utils

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAnalysis("bedroom", "ok", 12)
	m.RecordAnalysis("bedroom", "ok", 30)
	m.IncrementGuidanceFallbacks()
	m.IncrementJobsSubmitted()
	m.RecordJobFinished("completed", 1500)
	m.UpdateJobsInFlight(1)
	m.UpdateJobsInFlight(-1)
	m.AddJobsEvicted(3)
	m.RecordCacheLookup("MEMORY", true)
	m.RecordCacheLookup("MEMORY", false)
	m.RecordCacheLookup("MEMORY", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyses.WithLabelValues("bedroom", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guidanceFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsCompleted.WithLabelValues("completed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.jobsInFlight))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.jobsEvicted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("MEMORY", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("MEMORY", "miss")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAnalysis("x", "ok", 1)
		m.IncrementGuidanceFallbacks()
		m.IncrementJobsRejected("store_full")
		m.RecordJobFinished("failed", 1)
		m.UpdateJobsInFlight(1)
		m.AddJobsEvicted(1)
		m.RecordCacheLookup("REDIS", true)
	})
}
