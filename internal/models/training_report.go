package models

import "time"

// HourAssessment is one forecast hour with its own verdict
type HourAssessment struct {
	Observation    Observation    `json:"observation"`
	Recommendation Recommendation `json:"recommendation"`
	Reasons        []string       `json:"reasons"`
}

// ForecastWindow is the slice of forecast hours covering a training session
type ForecastWindow struct {
	StartHour int              `json:"start_hour"`
	EndHour   int              `json:"end_hour"`
	Hours     []HourAssessment `json:"hours"`
	Status    Recommendation   `json:"status"` // severity-max over Hours
}

// CurrentAssessment holds the current reading and its verdict
type CurrentAssessment struct {
	Observation    Observation    `json:"observation"`
	Recommendation Recommendation `json:"recommendation"`
	Reasons        []string       `json:"reasons"`
}

// Radar points at the precipitation radar image shown next to the report
type Radar struct {
	ImageURL string        `json:"image_url"`
	Bounds   [2][2]float64 `json:"bounds"` // [[north, west], [south, east]]
}

// TrainingReport is everything shown to the athletes for one check
type TrainingReport struct {
	RunID    string             `json:"run_id"`
	Date     time.Time          `json:"date"`
	Query    string             `json:"query"`
	Location Location           `json:"location"`
	Current  *CurrentAssessment `json:"current,omitempty"`
	Window   *ForecastWindow    `json:"window,omitempty"`
	Radar    Radar              `json:"radar"`
	Briefing string             `json:"briefing,omitempty"`
	Summary  string             `json:"summary"`
	Errors   []string           `json:"errors,omitempty"` // user-facing fetch problems
}

// Status is the verdict that decides the session: the window if fetched, else current conditions
func (r *TrainingReport) Status() Recommendation {
	if r.Window != nil {
		return r.Window.Status
	}
	if r.Current != nil {
		return r.Current.Recommendation
	}
	return Go
}
