package build

import (
	"sync"
	"time"
)

// TypesetResult describes one typesetter run.
type TypesetResult struct {
	Document string
	Duration time.Duration
	Error    error
}

// TypesetMetrics tracks typesetter runs
type TypesetMetrics struct {
	TotalRuns       int64
	SuccessfulRuns  int64
	FailedRuns      int64
	AverageDuration time.Duration
	TotalDuration   time.Duration
	LastDocument    string
	mutex           sync.RWMutex
}

// NewTypesetMetrics creates a new metrics tracker
func NewTypesetMetrics() *TypesetMetrics {
	return &TypesetMetrics{}
}

// RecordRun records a typesetter result in the metrics
func (m *TypesetMetrics) RecordRun(result TypesetResult) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalRuns++
	m.TotalDuration += result.Duration
	m.LastDocument = result.Document

	if result.Error != nil {
		m.FailedRuns++
	} else {
		m.SuccessfulRuns++
	}

	if m.TotalRuns > 0 {
		m.AverageDuration = m.TotalDuration / time.Duration(m.TotalRuns)
	}
}

// GetSnapshot returns a snapshot of current metrics
func (m *TypesetMetrics) GetSnapshot() TypesetMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return TypesetMetrics{
		TotalRuns:       m.TotalRuns,
		SuccessfulRuns:  m.SuccessfulRuns,
		FailedRuns:      m.FailedRuns,
		AverageDuration: m.AverageDuration,
		TotalDuration:   m.TotalDuration,
		LastDocument:    m.LastDocument,
	}
}

// Reset resets all metrics
func (m *TypesetMetrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalRuns = 0
	m.SuccessfulRuns = 0
	m.FailedRuns = 0
	m.AverageDuration = 0
	m.TotalDuration = 0
	m.LastDocument = ""
}

// GetSuccessRate returns the success rate as a percentage
func (m *TypesetMetrics) GetSuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalRuns == 0 {
		return 0.0
	}

	return float64(m.SuccessfulRuns) / float64(m.TotalRuns) * 100.0
}
