package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the room service. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	analyses          *prometheus.CounterVec
	analysisLatency   prometheus.Histogram
	guidanceFallbacks prometheus.Counter
	jobsSubmitted     prometheus.Counter
	jobsRejected      *prometheus.CounterVec
	jobsCompleted     *prometheus.CounterVec
	jobsInFlight      prometheus.Gauge
	jobDuration       prometheus.Histogram
	jobsEvicted       prometheus.Counter
	cacheLookups      *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "room_analyses_total",
				Help: "Total number of room analyses",
			},
			[]string{"room_type", "outcome"},
		),
		analysisLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "room_analysis_latency_ms",
				Help:    "Latency of the synchronous analysis pipeline in milliseconds",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
		),
		guidanceFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "guidance_fallbacks_total",
				Help: "Number of guidance runs that returned the degraded empty result",
			},
		),
		jobsSubmitted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "generation_jobs_submitted_total",
				Help: "Total number of accepted visualization jobs",
			},
		),
		jobsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_jobs_rejected_total",
				Help: "Visualization submissions refused before a job was created",
			},
			[]string{"reason"},
		),
		jobsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_jobs_completed_total",
				Help: "Visualization jobs that reached a terminal state",
			},
			[]string{"status"},
		),
		jobsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "generation_jobs_in_flight",
				Help: "Jobs currently holding a worker slot",
			},
		),
		jobDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "generation_job_duration_ms",
				Help:    "Time from processing to a terminal state in milliseconds",
				Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
			},
		),
		jobsEvicted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "generation_jobs_evicted_total",
				Help: "Finished jobs removed from the live job store",
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "detection_cache_lookups_total",
				Help: "Detection cache lookups per layer and result",
			},
			[]string{"layer", "result"},
		),
	}
}

// RecordAnalysis counts an analysis and its latency.
func (m *Metrics) RecordAnalysis(roomType, outcome string, milliseconds float64) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(roomType, outcome).Inc()
	m.analysisLatency.Observe(milliseconds)
}

func (m *Metrics) IncrementGuidanceFallbacks() {
	if m == nil {
		return
	}
	m.guidanceFallbacks.Inc()
}

func (m *Metrics) IncrementJobsSubmitted() {
	if m == nil {
		return
	}
	m.jobsSubmitted.Inc()
}

func (m *Metrics) IncrementJobsRejected(reason string) {
	if m == nil {
		return
	}
	m.jobsRejected.WithLabelValues(reason).Inc()
}

// RecordJobFinished counts a terminal job and how long it ran.
func (m *Metrics) RecordJobFinished(status string, milliseconds float64) {
	if m == nil {
		return
	}
	m.jobsCompleted.WithLabelValues(status).Inc()
	m.jobDuration.Observe(milliseconds)
}

// UpdateJobsInFlight adds delta to the in-flight gauge.
func (m *Metrics) UpdateJobsInFlight(delta float64) {
	if m == nil {
		return
	}
	m.jobsInFlight.Add(delta)
}

func (m *Metrics) AddJobsEvicted(n int) {
	if m == nil {
		return
	}
	m.jobsEvicted.Add(float64(n))
}

// RecordCacheLookup counts a detection cache hit or miss.
func (m *Metrics) RecordCacheLookup(layer string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(layer, result).Inc()
}
