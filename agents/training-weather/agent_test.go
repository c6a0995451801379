package trainingweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"training-weather/internal/models"
	"training-weather/shared/config"
	"training-weather/shared/monitoring"
	"training-weather/shared/scheduler"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type endpointReply struct {
	status int
	body   string
}

type fakeNotifier struct {
	subject string
	body    string
	calls   int
	err     error
}

func (f *fakeNotifier) SendHTML(subject, htmlBody string) error {
	f.calls++
	f.subject = subject
	f.body = htmlBody
	return f.err
}

type fakeBriefer struct {
	text string
	err  error
}

func (f fakeBriefer) Brief(ctx context.Context, report *models.TrainingReport) (string, error) {
	return f.text, f.err
}

type recordedEvents struct {
	successes []scheduler.Metrics
	partial   []error
	critical  []error
}

func (r *recordedEvents) events() *scheduler.AgentEvents {
	return &scheduler.AgentEvents{
		OnSuccess:         func(m scheduler.Metrics, _ time.Duration) { r.successes = append(r.successes, m) },
		OnPartialFailure:  func(err error, _ time.Duration) { r.partial = append(r.partial, err) },
		OnCriticalFailure: func(err error, _ time.Duration) { r.critical = append(r.critical, err) },
	}
}

// okCurrent reports 0.4 mm falling now
var okCurrent = endpointReply{http.StatusOK, currentFixture}

var okForecast = endpointReply{http.StatusOK, forecastFixture(
	forecastHour(16, 2.0, 95, "0"), // outside the window
	forecastHour(17, 0.0, 10, "0"),
	forecastHour(18, 0.5, 60, "0"),
)}

var unknownLocation = endpointReply{http.StatusBadRequest, `{"error": {"code": 1006, "message": "No matching location found."}}`}

func newTestAgent(t *testing.T, current, forecast endpointReply) (*TrainingWeatherAgent, *monitoring.Monitor) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := forecast
		if r.URL.Path == "/current.json" {
			reply = current
		}
		w.WriteHeader(reply.status)
		_, _ = w.Write([]byte(reply.body))
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Weather.BaseURL = server.URL
	cfg.Weather.APIKey = "test-key"

	monitor := monitoring.NewMonitor(nil)
	agent := NewTrainingWeatherAgent(cfg, monitoring.NewMetricsForTesting(), monitor)
	agent.clock = clockwork.NewFakeClockAt(time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC))
	require.NoError(t, agent.Initialize())

	return agent, monitor
}

func TestCheckBuildsReport(t *testing.T) {
	agent, monitor := newTestAgent(t, okCurrent, okForecast)
	ctx := scheduler.WithRunID(context.Background(), "run-7")

	report, err := agent.Check(ctx)
	require.NoError(t, err)

	assert.Equal(t, "run-7", report.RunID)
	assert.Equal(t, time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC), report.Date)
	assert.Equal(t, "Kamnik", report.Query)
	assert.Equal(t, "Kamnik", report.Location.Name)
	assert.Empty(t, report.Errors)

	require.NotNil(t, report.Current)
	assert.Equal(t, models.Conditional, report.Current.Recommendation)
	assert.NotEmpty(t, report.Current.Reasons)

	require.NotNil(t, report.Window)
	assert.Equal(t, 17, report.Window.StartHour)
	assert.Equal(t, 18, report.Window.EndHour)
	require.Len(t, report.Window.Hours, 2, "the 16:00 downpour is outside the window")
	assert.Equal(t, models.Go, report.Window.Hours[0].Recommendation)
	assert.Equal(t, models.Conditional, report.Window.Hours[1].Recommendation)
	assert.Equal(t, models.Conditional, report.Window.Status)

	assert.Equal(t, models.Conditional, report.Status())
	assert.Equal(t, "Borderline conditions - train with caution.", report.Summary)
	assert.Contains(t, report.Radar.ImageURL, "si0-rm-anim.gif")

	assert.Same(t, report, monitor.LatestReport())
}

func TestCheckCurrentFailureKeepsForecast(t *testing.T) {
	agent, _ := newTestAgent(t, endpointReply{http.StatusBadGateway, "bad gateway"}, okForecast)

	report, err := agent.Check(context.Background())
	require.NoError(t, err)

	assert.Nil(t, report.Current)
	require.NotNil(t, report.Window)
	assert.Equal(t, models.Conditional, report.Status())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Could not reach the weather service")
}

func TestCheckForecastFailureFallsBackToCurrent(t *testing.T) {
	agent, _ := newTestAgent(t, okCurrent, endpointReply{http.StatusOK, `{"location": {"name": "Kamnik"}}`})

	report, err := agent.Check(context.Background())
	require.NoError(t, err)

	assert.Nil(t, report.Window)
	require.NotNil(t, report.Current)
	assert.Equal(t, models.Conditional, report.Status())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Weather service sent unexpected data")
}

func TestCheckBothFail(t *testing.T) {
	agent, monitor := newTestAgent(t, unknownLocation, unknownLocation)

	report, err := agent.Check(context.Background())
	require.Error(t, err)

	var providerErr *ProviderError
	assert.ErrorAs(t, err, &providerErr)

	require.NotNil(t, report)
	assert.Len(t, report.Errors, 2)
	assert.Equal(t, "Weather service error: No matching location found.", report.Errors[0])
	assert.Same(t, report, monitor.LatestReport(), "failed reports are still published")
}

func TestCheckThunderCancelsWindow(t *testing.T) {
	forecast := endpointReply{http.StatusOK, forecastFixture(
		forecastHour(17, 0.0, 0, "0"),
		forecastHour(18, 0.0, 0, "1"),
	)}
	agent, _ := newTestAgent(t, okCurrent, forecast)

	report, err := agent.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.Cancel, report.Window.Status)
	assert.Equal(t, models.Cancel, report.Status())
	assert.Equal(t, "Training cancelled - conditions are unacceptable.", report.Summary)
}

func TestCheckMentionsCurrentCancelUnderGoWindow(t *testing.T) {
	current := endpointReply{http.StatusOK, `{
  "location": {"name": "Kamnik", "tz_id": "UTC"},
  "current": {"temp_c": 20, "precip_mm": 0, "wind_kph": 5, "vis_km": 10, "uv": 3, "thunder": true}
}`}
	forecast := endpointReply{http.StatusOK, forecastFixture(
		forecastHour(17, 0.0, 0, "0"),
		forecastHour(18, 0.0, 0, "0"),
	)}
	agent, _ := newTestAgent(t, current, forecast)

	report, err := agent.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.Cancel, report.Current.Recommendation)
	assert.Equal(t, models.Go, report.Status())
	assert.Contains(t, report.Summary, "Conditions are acceptable")
	assert.Contains(t, report.Summary, "Current conditions are unacceptable (Thunderstorm)")
}

func TestCheckAddsBriefing(t *testing.T) {
	agent, _ := newTestAgent(t, okCurrent, okForecast)
	agent.briefer = fakeBriefer{text: "Light rain expected, bring a jacket."}

	report, err := agent.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Light rain expected, bring a jacket.", report.Briefing)

	agent.briefer = fakeBriefer{err: errors.New("quota exceeded")}
	report, err = agent.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Briefing)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "quota exceeded")
}

func TestRunOnceSendsEmail(t *testing.T) {
	agent, _ := newTestAgent(t, okCurrent, okForecast)
	notifier := &fakeNotifier{}
	agent.notifier = notifier
	rec := &recordedEvents{}

	require.NoError(t, agent.RunOnce(context.Background(), rec.events()))

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "POGOJNO - Training in Kamnik (Jun 3)", notifier.subject)
	assert.Contains(t, notifier.body, "<!DOCTYPE html>")

	require.Len(t, rec.successes, 1)
	assert.Empty(t, rec.critical)
	assert.Equal(t, "training status CONDITIONAL, email sent", rec.successes[0].GetSummary())
}

func TestRunOnceRespectsNotifyOn(t *testing.T) {
	agent, _ := newTestAgent(t, okCurrent, okForecast)
	agent.config.Email.NotifyOn = []string{"CANCEL"}
	notifier := &fakeNotifier{}
	agent.notifier = notifier
	rec := &recordedEvents{}

	require.NoError(t, agent.RunOnce(context.Background(), rec.events()))

	assert.Zero(t, notifier.calls)
	require.Len(t, rec.successes, 1)
	assert.Equal(t, "training status CONDITIONAL, no email sent", rec.successes[0].GetSummary())
}

func TestRunOncePartialFailure(t *testing.T) {
	agent, _ := newTestAgent(t, unknownLocation, okForecast)
	rec := &recordedEvents{}

	require.NoError(t, agent.RunOnce(context.Background(), rec.events()))

	require.Len(t, rec.partial, 1)
	assert.Contains(t, rec.partial[0].Error(), "No matching location found.")
	assert.Len(t, rec.successes, 1)
	assert.Empty(t, rec.critical)
}

func TestRunOnceCriticalFailure(t *testing.T) {
	agent, _ := newTestAgent(t, unknownLocation, unknownLocation)
	notifier := &fakeNotifier{}
	agent.notifier = notifier
	rec := &recordedEvents{}

	err := agent.RunOnce(context.Background(), rec.events())
	require.Error(t, err)

	assert.Len(t, rec.critical, 1)
	assert.Empty(t, rec.successes)
	assert.Zero(t, notifier.calls)
}

func TestRunOnceEmailFailure(t *testing.T) {
	agent, _ := newTestAgent(t, okCurrent, okForecast)
	agent.notifier = &fakeNotifier{err: errors.New("connection refused")}
	rec := &recordedEvents{}

	err := agent.RunOnce(context.Background(), rec.events())

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to send email report")
	assert.Len(t, rec.critical, 1)
	assert.Empty(t, rec.successes)
}

func TestInitializeRejectsBadWindow(t *testing.T) {
	cfg := config.Default()
	cfg.Training.StartHour, cfg.Training.EndHour = 19, 17

	agent := NewTrainingWeatherAgent(cfg, nil, nil)
	err := agent.Initialize()

	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid training window")
}

func TestTrainingMetricsSummary(t *testing.T) {
	assert.Equal(t, "no weather data available", TrainingMetrics{}.GetSummary())
	assert.Equal(t, "training status GO, no email sent",
		TrainingMetrics{CurrentFetched: true, Status: models.Go}.GetSummary())
	assert.Equal(t, "training status CANCEL, email sent",
		TrainingMetrics{ForecastFetched: true, Status: models.Cancel, EmailSent: true}.GetSummary())
}
