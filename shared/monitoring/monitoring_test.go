package monitoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"training-weather/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeMonitor() (*Monitor, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.June, 3, 15, 0, 0, 0, time.UTC))
	return NewMonitor(clock), clock
}

func TestMonitorHealth(t *testing.T) {
	m, clock := fakeMonitor()

	assert.True(t, m.IsHealthy(), "no runs yet counts as healthy")
	assert.Equal(t, "No runs yet", m.GetStatusSummary())

	m.RecordCriticalFailure(errors.New("boom"), time.Second)
	assert.False(t, m.IsHealthy())
	assert.Equal(t, "❌ Last run failed: Jun 3 15:00", m.GetStatusSummary())

	clock.Advance(time.Hour)
	m.RecordPartialFailure(errors.New("briefing failed"), time.Second)
	assert.False(t, m.IsHealthy(), "partial failures leave health unchanged")

	m.RecordSuccess("ok", time.Second)
	assert.True(t, m.IsHealthy())
	assert.Equal(t, "✅ Last run: Jun 3 16:00", m.GetStatusSummary())
}

func TestMonitorLatestReportWins(t *testing.T) {
	m, _ := fakeMonitor()
	assert.Nil(t, m.LatestReport())

	first := &models.TrainingReport{RunID: "a", Location: models.Location{Name: "Kamnik"}}
	second := &models.TrainingReport{RunID: "b", Location: models.Location{Name: "Kamnik"}, Window: &models.ForecastWindow{Status: models.Cancel}}
	m.PublishReport(first)
	m.PublishReport(second)

	assert.Equal(t, "b", m.LatestReport().RunID)

	m.RecordSuccess("done", time.Second)
	assert.Contains(t, m.GetStatusSummary(), "Kamnik: CANCEL")
}

func TestHealthServerRoutes(t *testing.T) {
	m, _ := fakeMonitor()
	router := NewHealthServer(m, "").Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OK - No runs yet")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	m.PublishReport(&models.TrainingReport{RunID: "run-1", Current: &models.CurrentAssessment{Recommendation: models.Conditional}})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, "CONDITIONAL", body["current"].(map[string]any)["recommendation"])

	m.RecordCriticalFailure(errors.New("down"), time.Second)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Last run failed")
}

func TestMetricsObserve(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObserveProviderRequest("current", "success", 120*time.Millisecond)
	m.ObserveProviderRequest("current", "provider_error", 80*time.Millisecond)
	m.ObserveRecommendation("window", models.Cancel)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("current", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recommendations.WithLabelValues("window", "CANCEL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LastStatus.WithLabelValues("window")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveRecommendation("current", models.Go) })
}
