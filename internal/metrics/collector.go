package metrics

import (
	"sync"
	"time"
)

// StageTimings records how long each stage of one analysis took. It is safe
// for concurrent use, since batch analysis times files in parallel.
type StageTimings struct {
	mu sync.Mutex

	start  time.Time
	open   map[string]time.Time
	stages map[string]float64
	order  []string
}

// NewStageTimings starts the overall clock.
func NewStageTimings() *StageTimings {
	return &StageTimings{
		start:  time.Now(),
		open:   make(map[string]time.Time),
		stages: make(map[string]float64),
	}
}

// Start marks the start of a stage
func (m *StageTimings) Start(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open[stage] = time.Now()
}

// End marks the end of a stage. Ending a stage that was never started is a no-op.
func (m *StageTimings) End(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	started, ok := m.open[stage]
	if !ok {
		return
	}
	delete(m.open, stage)
	m.record(stage, time.Since(started))
}

// Time runs fn as a named stage.
func (m *StageTimings) Time(stage string, fn func()) {
	m.Start(stage)
	defer m.End(stage)
	fn()
}

// Record adds an externally measured duration.
func (m *StageTimings) Record(stage string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(stage, d)
}

func (m *StageTimings) record(stage string, d time.Duration) {
	if _, seen := m.stages[stage]; !seen {
		m.order = append(m.order, stage)
	}
	m.stages[stage] = float64(d.Microseconds()) / 1000.0
}

// Finalize records the total and returns a copy of all timings in milliseconds.
func (m *StageTimings) Finalize() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("total", time.Since(m.start))
	out := make(map[string]float64, len(m.stages))
	for k, v := range m.stages {
		out[k] = v
	}
	return out
}

// Stages lists recorded stage names in first-recorded order.
func (m *StageTimings) Stages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// TotalMs is the elapsed time since creation.
func (m *StageTimings) TotalMs() float64 {
	return float64(time.Since(m.start).Microseconds()) / 1000.0
}
