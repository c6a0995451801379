package models

import (
	"fmt"
	"math"
	"time"
)

// Location identifies the place a provider resolved a query to
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	LocalTime string  `json:"local_time"` // provider local time, "2006-01-02 15:04"
}

// Condition is the provider's textual summary of the sky
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// Observation is a single weather reading, either current conditions or one forecast hour
type Observation struct {
	Time            time.Time `json:"time"`
	PrecipitationMm float64   `json:"precipitation_mm"`
	HasThunder      bool      `json:"has_thunder"`
	ChanceOfRainPct *int      `json:"chance_of_rain_pct,omitempty"` // nil for current conditions
	WindKph         float64   `json:"wind_kph"`
	VisibilityKm    float64   `json:"visibility_km"`
	UVIndex         float64   `json:"uv_index"`
	TempC           float64   `json:"temp_c"`
	Condition       Condition `json:"condition"`
}

// ChanceOfRain returns the chance of rain and whether the provider supplied one
func (o Observation) ChanceOfRain() (int, bool) {
	if o.ChanceOfRainPct == nil {
		return 0, false
	}
	return *o.ChanceOfRainPct, true
}

// Validate rejects readings that would make a recommendation meaningless
func (o Observation) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"precipitation_mm", o.PrecipitationMm},
		{"wind_kph", o.WindKph},
		{"visibility_km", o.VisibilityKm},
		{"uv_index", o.UVIndex},
		{"temp_c", o.TempC},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s is not a finite number", f.name)
		}
	}

	if o.PrecipitationMm < 0 {
		return fmt.Errorf("precipitation_mm must not be negative, got %.2f", o.PrecipitationMm)
	}
	if o.WindKph < 0 {
		return fmt.Errorf("wind_kph must not be negative, got %.2f", o.WindKph)
	}
	if o.VisibilityKm < 0 {
		return fmt.Errorf("visibility_km must not be negative, got %.2f", o.VisibilityKm)
	}
	if chance, ok := o.ChanceOfRain(); ok && (chance < 0 || chance > 100) {
		return fmt.Errorf("chance_of_rain must be between 0 and 100, got %d", chance)
	}
	return nil
}

// CurrentConditions is the provider's answer for the current-weather endpoint
type CurrentConditions struct {
	Location    Location    `json:"location"`
	Observation Observation `json:"observation"`
}

// HourlyForecast is the provider's hour-by-hour forecast for one day
type HourlyForecast struct {
	Location Location      `json:"location"`
	Hours    []Observation `json:"hours"`
}

// Percent is a helper for building optional chance-of-rain values
func Percent(v int) *int {
	return &v
}
