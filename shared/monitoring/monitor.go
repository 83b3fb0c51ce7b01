package monitoring

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Monitor tracks the outcome of the most recent ingestion run. It backs
// the /health and /status endpoints.
type Monitor struct {
	mu             sync.Mutex
	lastRunSuccess bool
	lastRunTime    time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.mu.Unlock()

	log.Printf("Run completed successfully - %s (took %v)", summary, duration)
}

// RecordPartialFailure logs a degraded run without flipping health.
func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	log.Printf("PARTIAL FAILURE: %s (took %v)", err.Error(), duration)
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.mu.Unlock()

	log.Printf("CRITICAL FAILURE: %s (took %v)", err.Error(), duration)
}

func (m *Monitor) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastRunTime.IsZero() {
		return true // No runs yet, assume healthy
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}
	if m.lastRunSuccess {
		return fmt.Sprintf("Last run: %s", m.lastRunTime.Format("Jan 2 15:04"))
	}
	return fmt.Sprintf("Last run failed: %s", m.lastRunTime.Format("Jan 2 15:04"))
}
