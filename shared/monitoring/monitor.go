package monitoring

import (
	"fmt"
	"log"
	"sync"
	"time"

	"training-weather/internal/models"

	"github.com/jonboulle/clockwork"
)

// Monitor tracks the health of the last run and holds the latest training report.
// The health server reads it concurrently with scheduled runs.
type Monitor struct {
	mu             sync.RWMutex
	clock          clockwork.Clock
	lastRunSuccess bool
	lastRunTime    time.Time
	latestReport   *models.TrainingReport
}

func NewMonitor(clock clockwork.Clock) *Monitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Monitor{clock: clock}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = m.clock.Now()
	m.mu.Unlock()

	log.Printf("✅ Run completed successfully - %s (took %v)", summary, duration)
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	// Don't change health status for partial failures
	log.Printf("⚠️  PARTIAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = m.clock.Now()
	failedAt := m.lastRunTime
	m.mu.Unlock()

	log.Printf("🚨 CRITICAL FAILURE: %s (Duration: %v)", err.Error(), duration)
	log.Printf("Failure occurred at: %s", failedAt.Format("2006-01-02 15:04:05"))
}

// PublishReport replaces the held report. Later runs always win.
func (m *Monitor) PublishReport(report *models.TrainingReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latestReport = report
}

func (m *Monitor) LatestReport() *models.TrainingReport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestReport
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // No runs yet, assume healthy
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}

	status := ""
	if m.latestReport != nil {
		status = fmt.Sprintf(" - %s: %s", m.latestReport.Location.Name, m.latestReport.Status())
	}

	if m.lastRunSuccess {
		return fmt.Sprintf("✅ Last run: %s%s", m.lastRunTime.Format("Jan 2 15:04"), status)
	}
	return fmt.Sprintf("❌ Last run failed: %s%s", m.lastRunTime.Format("Jan 2 15:04"), status)
}
