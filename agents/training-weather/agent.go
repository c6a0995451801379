package trainingweather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"training-weather/internal/decision"
	"training-weather/internal/models"
	"training-weather/shared/ai"
	"training-weather/shared/config"
	"training-weather/shared/email"
	"training-weather/shared/monitoring"
	"training-weather/shared/scheduler"

	"github.com/jonboulle/clockwork"
)

// TrainingMetrics represents the metrics collected during a training weather check
type TrainingMetrics struct {
	CurrentFetched  bool                  `json:"current_fetched"`
	ForecastFetched bool                  `json:"forecast_fetched"`
	Status          models.Recommendation `json:"status"`
	EmailSent       bool                  `json:"email_sent"`
}

// GetSummary implements the scheduler.Metrics interface
func (m TrainingMetrics) GetSummary() string {
	switch {
	case !m.CurrentFetched && !m.ForecastFetched:
		return "no weather data available"
	case m.EmailSent:
		return fmt.Sprintf("training status %s, email sent", m.Status)
	default:
		return fmt.Sprintf("training status %s, no email sent", m.Status)
	}
}

// Briefer writes a plain-language note for a finished report
type Briefer interface {
	Brief(ctx context.Context, report *models.TrainingReport) (string, error)
}

// Notifier delivers the HTML report
type Notifier interface {
	SendHTML(subject, htmlBody string) error
}

// ReportPublisher receives every finished report
type ReportPublisher interface {
	PublishReport(report *models.TrainingReport)
}

// TrainingWeatherAgent implements the scheduler.Agent interface
type TrainingWeatherAgent struct {
	config        *config.Config
	weatherClient *WeatherClient
	engine        *decision.Engine
	briefer       Briefer
	notifier      Notifier
	publisher     ReportPublisher
	metrics       *monitoring.Metrics
	clock         clockwork.Clock
}

func NewTrainingWeatherAgent(cfg *config.Config, metrics *monitoring.Metrics, publisher ReportPublisher) *TrainingWeatherAgent {
	return &TrainingWeatherAgent{
		config:    cfg,
		metrics:   metrics,
		publisher: publisher,
		clock:     clockwork.NewRealClock(),
	}
}

func (a *TrainingWeatherAgent) Name() string {
	return "Training Weather Agent"
}

func (a *TrainingWeatherAgent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if strings.TrimSpace(a.config.Training.Location) == "" {
		return fmt.Errorf("training location must be configured (training.location)")
	}
	if err := config.ValidateHours(a.config.Training.StartHour, a.config.Training.EndHour); err != nil {
		return fmt.Errorf("invalid training window: %w", err)
	}

	if a.weatherClient == nil {
		a.weatherClient = NewWeatherClient(&a.config.Weather, a.metrics)
		log.Println("Weather client initialized")
	}

	if a.engine == nil {
		a.engine = decision.NewEngine(a.config.Training.Rules)
	}

	if a.briefer == nil && a.config.AI.Enabled {
		briefer, err := ai.NewBriefer(context.Background(), &a.config.AI)
		if err != nil {
			return fmt.Errorf("failed to initialize briefer: %w", err)
		}
		a.briefer = briefer
		log.Printf("Briefings enabled with model %s", a.config.AI.Model)
	}

	if a.notifier == nil && a.config.Email.Enabled() {
		a.notifier = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	log.Printf("Configured for %s, training window %02d:00-%02d:00",
		a.config.Training.Location, a.config.Training.StartHour, a.config.Training.EndHour)

	return nil
}

func (a *TrainingWeatherAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := a.clock.Now()
	metrics := TrainingMetrics{}

	report, err := a.Check(ctx)
	if report != nil {
		metrics.CurrentFetched = report.Current != nil
		metrics.ForecastFetched = report.Window != nil
		metrics.Status = report.Status()
	}
	if err != nil {
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(err, a.clock.Since(startTime))
		}
		return err
	}

	for _, problem := range report.Errors {
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(errors.New(problem), a.clock.Since(startTime))
		}
		log.Printf("Warning: %s", problem)
	}

	if a.notifier != nil && a.config.Email.ShouldNotify(report.Status()) {
		log.Printf("Sending %s report email...", report.Status())
		if err := a.sendEmailReport(report); err != nil {
			if events != nil && events.OnCriticalFailure != nil {
				events.OnCriticalFailure(fmt.Errorf("failed to send email report: %w", err), a.clock.Since(startTime))
			}
			return fmt.Errorf("failed to send email report: %w", err)
		}
		metrics.EmailSent = true
	}

	duration := a.clock.Since(startTime)
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, duration)
	}

	log.Printf("Training weather check complete: status=%s, email_sent=%t", metrics.Status, metrics.EmailSent)

	return nil
}

// Check fetches current conditions and the forecast, classifies both and publishes
// the report. A failure of one fetch is recorded in the report; only when both
// fail is an error returned.
func (a *TrainingWeatherAgent) Check(ctx context.Context) (*models.TrainingReport, error) {
	location := a.config.Training.Location

	report := &models.TrainingReport{
		RunID: scheduler.RunID(ctx),
		Date:  a.clock.Now(),
		Query: location,
		Radar: a.config.Radar.Radar(),
	}

	var currentErr, forecastErr error

	current, err := a.weatherClient.GetCurrentWeather(ctx, location)
	if err != nil {
		currentErr = fmt.Errorf("failed to fetch current weather: %w", err)
		report.Errors = append(report.Errors, DescribeError(err))
	} else {
		report.Location = current.Location
		report.Current = a.assessCurrent(current.Observation)
		log.Printf("Current conditions: %s (precip=%.1f mm, thunder=%t)",
			report.Current.Recommendation, current.Observation.PrecipitationMm, current.Observation.HasThunder)
	}

	forecast, err := a.weatherClient.GetHourlyForecast(ctx, location)
	if err != nil {
		forecastErr = fmt.Errorf("failed to fetch hourly forecast: %w", err)
		report.Errors = append(report.Errors, DescribeError(err))
	} else {
		report.Location = forecast.Location
		window, err := a.assessWindow(forecast.Hours)
		if err != nil {
			return nil, err
		}
		report.Window = window
		log.Printf("Training window %02d:00-%02d:00: %s over %d hour(s)",
			window.StartHour, window.EndHour, window.Status, len(window.Hours))
	}

	if currentErr != nil && forecastErr != nil {
		a.publish(report)
		return report, errors.Join(currentErr, forecastErr)
	}

	report.Summary = summarize(report)

	if a.briefer != nil {
		briefing, err := a.briefer.Brief(ctx, report)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Briefing unavailable: %v", err))
		} else {
			report.Briefing = briefing
		}
	}

	a.publish(report)
	return report, nil
}

func (a *TrainingWeatherAgent) assessCurrent(obs models.Observation) *models.CurrentAssessment {
	assessment := a.engine.Current().Assess(obs)
	a.metrics.ObserveRecommendation("current", assessment.Recommendation)
	return &models.CurrentAssessment{
		Observation:    obs,
		Recommendation: assessment.Recommendation,
		Reasons:        assessment.Reasons,
	}
}

func (a *TrainingWeatherAgent) assessWindow(hours []models.Observation) (*models.ForecastWindow, error) {
	start, end := a.config.Training.StartHour, a.config.Training.EndHour

	selected, err := FilterHours(hours, start, end)
	if err != nil {
		return nil, fmt.Errorf("invalid training window: %w", err)
	}

	window := &models.ForecastWindow{
		StartHour: start,
		EndHour:   end,
		Hours:     make([]models.HourAssessment, 0, len(selected)),
		Status:    a.engine.ClassifyRange(selected),
	}
	for _, h := range selected {
		assessment := a.engine.Forecast().Assess(h)
		window.Hours = append(window.Hours, models.HourAssessment{
			Observation:    h,
			Recommendation: assessment.Recommendation,
			Reasons:        assessment.Reasons,
		})
	}

	a.metrics.ObserveRecommendation("window", window.Status)
	return window, nil
}

func (a *TrainingWeatherAgent) publish(report *models.TrainingReport) {
	if a.publisher != nil {
		a.publisher.PublishReport(report)
	}
}

func summarize(report *models.TrainingReport) string {
	var summary string
	switch report.Status() {
	case models.Cancel:
		summary = "Training cancelled - conditions are unacceptable."
	case models.Conditional:
		summary = "Borderline conditions - train with caution."
	default:
		summary = "Conditions are acceptable - enjoy training!"
	}

	// The window decides the session, but a cancel right now must not go unmentioned.
	if c := report.Current; c != nil && c.Recommendation == models.Cancel && report.Status() != models.Cancel {
		summary += " Current conditions are unacceptable (" + strings.Join(c.Reasons, ", ") + "), check again before leaving."
	}
	return summary
}

// sendEmailReport sends a training weather report via email
func (a *TrainingWeatherAgent) sendEmailReport(report *models.TrainingReport) error {
	subject := fmt.Sprintf("%s - Training in %s (%s)",
		report.Status().Label(), report.Location.Name, report.Date.Format("Jan 2"))

	body, err := generateEmailBody(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return a.notifier.SendHTML(subject, body)
}
