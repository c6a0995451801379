// Package decision turns weather observations into training recommendations.
//
// Two strategies exist: CurrentRule for a single current-conditions reading and
// ForecastRule for each forecast hour. Both are pure and safe for concurrent use.
// ClassifyRange reduces a window of hours to its most severe recommendation.
package decision

import (
	"fmt"

	"training-weather/internal/models"
)

// Classifier maps one observation to a recommendation
type Classifier interface {
	Classify(obs models.Observation) models.Recommendation
}

// ClassifierFunc adapts a plain function to Classifier
type ClassifierFunc func(obs models.Observation) models.Recommendation

func (f ClassifierFunc) Classify(obs models.Observation) models.Recommendation {
	return f(obs)
}

// Assessment is a recommendation together with every rule that fired
type Assessment struct {
	Recommendation models.Recommendation
	Reasons        []string
}

func (a *Assessment) raise(to models.Recommendation, reason string) {
	a.Recommendation = models.Worst(a.Recommendation, to)
	a.Reasons = append(a.Reasons, reason)
}

// CurrentRule classifies a current-conditions reading. Chance of rain is never consulted.
type CurrentRule struct {
	rules Rules
}

func NewCurrentRule(rules Rules) CurrentRule {
	return CurrentRule{rules: rules}
}

func (c CurrentRule) Name() string { return "current" }

func (c CurrentRule) Classify(obs models.Observation) models.Recommendation {
	return c.Assess(obs).Recommendation
}

func (c CurrentRule) Assess(obs models.Observation) Assessment {
	a := Assessment{Recommendation: models.Go, Reasons: []string{}}

	p := c.rules.Current.Precipitation
	if p.Enabled {
		if obs.PrecipitationMm > p.CancelAboveMm {
			a.raise(models.Cancel, fmt.Sprintf("Precipitation %.1f mm (cancel above %.1f mm)", obs.PrecipitationMm, p.CancelAboveMm))
		} else if obs.PrecipitationMm > p.ConditionalAboveMm {
			a.raise(models.Conditional, fmt.Sprintf("Precipitation %.1f mm (caution above %.1f mm)", obs.PrecipitationMm, p.ConditionalAboveMm))
		}
	}
	if c.rules.Current.Thunder.Enabled && obs.HasThunder {
		a.raise(models.Cancel, "Thunderstorm")
	}

	applyOptional(c.rules, obs, &a)
	return a
}

// ForecastRule classifies one forecast hour using chance of rain and amount together
type ForecastRule struct {
	rules Rules
}

func NewForecastRule(rules Rules) ForecastRule {
	return ForecastRule{rules: rules}
}

func (f ForecastRule) Name() string { return "forecast" }

func (f ForecastRule) Classify(obs models.Observation) models.Recommendation {
	return f.Assess(obs).Recommendation
}

func (f ForecastRule) Assess(obs models.Observation) Assessment {
	a := Assessment{Recommendation: models.Go, Reasons: []string{}}

	rain := f.rules.Forecast.Rain
	if chance, ok := obs.ChanceOfRain(); rain.Enabled && ok {
		if chance > rain.CancelChanceAbove && obs.PrecipitationMm > rain.CancelPrecipAboveMm {
			a.raise(models.Cancel, fmt.Sprintf("Rain %d%% likely with %.1f mm (cancel above %d%% and %.1f mm)",
				chance, obs.PrecipitationMm, rain.CancelChanceAbove, rain.CancelPrecipAboveMm))
		} else if chance > rain.ConditionalChanceAbove && obs.PrecipitationMm > rain.ConditionalPrecipAboveMm {
			a.raise(models.Conditional, fmt.Sprintf("Rain %d%% likely with %.1f mm (caution above %d%% and %.1f mm)",
				chance, obs.PrecipitationMm, rain.ConditionalChanceAbove, rain.ConditionalPrecipAboveMm))
		}
	}
	if f.rules.Forecast.Thunder.Enabled && obs.HasThunder {
		a.raise(models.Cancel, "Thunderstorm")
	}

	applyOptional(f.rules, obs, &a)
	return a
}

// applyOptional runs the wind, visibility and UV rules, each only when enabled
func applyOptional(rules Rules, obs models.Observation, a *Assessment) {
	if w := rules.Wind; w.Enabled {
		if obs.WindKph > w.CancelAboveKph {
			a.raise(models.Cancel, fmt.Sprintf("Wind %.0f km/h (cancel above %.0f km/h)", obs.WindKph, w.CancelAboveKph))
		} else if obs.WindKph > w.ConditionalAboveKph {
			a.raise(models.Conditional, fmt.Sprintf("Wind %.0f km/h (caution above %.0f km/h)", obs.WindKph, w.ConditionalAboveKph))
		}
	}
	if v := rules.Visibility; v.Enabled && obs.VisibilityKm < v.CancelBelowKm {
		a.raise(models.Cancel, fmt.Sprintf("Visibility %.1f km (cancel below %.1f km)", obs.VisibilityKm, v.CancelBelowKm))
	}
	if u := rules.UV; u.Enabled && obs.UVIndex > u.ConditionalAbove {
		a.raise(models.Conditional, fmt.Sprintf("UV index %.0f (caution above %.0f)", obs.UVIndex, u.ConditionalAbove))
	}
}

// ClassifyRange returns the most severe recommendation among hours. An empty range is Go.
func ClassifyRange(c Classifier, hours []models.Observation) models.Recommendation {
	worst := models.Go
	for _, h := range hours {
		status := c.Classify(h)
		if status == models.Cancel {
			return models.Cancel
		}
		worst = models.Worst(worst, status)
	}
	return worst
}

// Engine bundles both strategies built from one rule table
type Engine struct {
	rules    Rules
	current  CurrentRule
	forecast ForecastRule
}

func NewEngine(rules Rules) *Engine {
	return &Engine{
		rules:    rules,
		current:  NewCurrentRule(rules),
		forecast: NewForecastRule(rules),
	}
}

func (e *Engine) Rules() Rules { return e.rules }

func (e *Engine) Current() CurrentRule { return e.current }

func (e *Engine) Forecast() ForecastRule { return e.forecast }

func (e *Engine) ClassifyCurrent(obs models.Observation) models.Recommendation {
	return e.current.Classify(obs)
}

func (e *Engine) ClassifyHour(obs models.Observation) models.Recommendation {
	return e.forecast.Classify(obs)
}

// ClassifyRange applies the forecast rule to every hour and reduces by severity
func (e *Engine) ClassifyRange(hours []models.Observation) models.Recommendation {
	return ClassifyRange(e.forecast, hours)
}
