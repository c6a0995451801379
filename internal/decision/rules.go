package decision

import "fmt"

// Rules is the full threshold catalogue. Every rule carries its own enabled flag.
type Rules struct {
	Current    CurrentRules   `yaml:"current" json:"current"`
	Forecast   ForecastRules  `yaml:"forecast" json:"forecast"`
	Wind       WindRule       `yaml:"wind" json:"wind"`
	Visibility VisibilityRule `yaml:"visibility" json:"visibility"`
	UV         UVRule         `yaml:"uv" json:"uv"`
}

// CurrentRules apply to a current-conditions reading
type CurrentRules struct {
	Precipitation PrecipitationRule `yaml:"precipitation" json:"precipitation"`
	Thunder       ThunderRule       `yaml:"thunder" json:"thunder"`
}

// ForecastRules apply to each forecast hour
type ForecastRules struct {
	Rain    RainChanceRule `yaml:"rain" json:"rain"`
	Thunder ThunderRule    `yaml:"thunder" json:"thunder"`
}

type PrecipitationRule struct {
	Enabled            bool    `yaml:"enabled" json:"enabled"`
	CancelAboveMm      float64 `yaml:"cancel_above_mm" json:"cancel_above_mm"`
	ConditionalAboveMm float64 `yaml:"conditional_above_mm" json:"conditional_above_mm"`
}

// RainChanceRule fires only when both the chance of rain and the amount exceed their limits
type RainChanceRule struct {
	Enabled                  bool    `yaml:"enabled" json:"enabled"`
	CancelChanceAbove        int     `yaml:"cancel_chance_above" json:"cancel_chance_above"`
	CancelPrecipAboveMm      float64 `yaml:"cancel_precip_above_mm" json:"cancel_precip_above_mm"`
	ConditionalChanceAbove   int     `yaml:"conditional_chance_above" json:"conditional_chance_above"`
	ConditionalPrecipAboveMm float64 `yaml:"conditional_precip_above_mm" json:"conditional_precip_above_mm"`
}

type ThunderRule struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type WindRule struct {
	Enabled             bool    `yaml:"enabled" json:"enabled"`
	CancelAboveKph      float64 `yaml:"cancel_above_kph" json:"cancel_above_kph"`
	ConditionalAboveKph float64 `yaml:"conditional_above_kph" json:"conditional_above_kph"`
}

type VisibilityRule struct {
	Enabled       bool    `yaml:"enabled" json:"enabled"`
	CancelBelowKm float64 `yaml:"cancel_below_km" json:"cancel_below_km"`
}

type UVRule struct {
	Enabled          bool    `yaml:"enabled" json:"enabled"`
	ConditionalAbove float64 `yaml:"conditional_above" json:"conditional_above"`
}

// DefaultRules returns the rule table used by the training club. Wind, visibility
// and UV limits are known but switched off.
func DefaultRules() Rules {
	return Rules{
		Current: CurrentRules{
			Precipitation: PrecipitationRule{Enabled: true, CancelAboveMm: 1, ConditionalAboveMm: 0.3},
			Thunder:       ThunderRule{Enabled: true},
		},
		Forecast: ForecastRules{
			Rain: RainChanceRule{
				Enabled:                  true,
				CancelChanceAbove:        80,
				CancelPrecipAboveMm:      1,
				ConditionalChanceAbove:   50,
				ConditionalPrecipAboveMm: 0.3,
			},
			Thunder: ThunderRule{Enabled: true},
		},
		Wind:       WindRule{Enabled: false, CancelAboveKph: 35, ConditionalAboveKph: 20},
		Visibility: VisibilityRule{Enabled: false, CancelBelowKm: 2},
		UV:         UVRule{Enabled: false, ConditionalAbove: 7},
	}
}

// Validate checks that every threshold pair is ordered and percentages are in range
func (r Rules) Validate() error {
	p := r.Current.Precipitation
	if p.CancelAboveMm < p.ConditionalAboveMm {
		return fmt.Errorf("current precipitation cancel threshold (%.2f mm) is below the conditional threshold (%.2f mm)", p.CancelAboveMm, p.ConditionalAboveMm)
	}

	rain := r.Forecast.Rain
	for _, pct := range []int{rain.CancelChanceAbove, rain.ConditionalChanceAbove} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("forecast chance of rain threshold must be between 0 and 100, got %d", pct)
		}
	}
	if rain.CancelChanceAbove < rain.ConditionalChanceAbove {
		return fmt.Errorf("forecast cancel chance (%d%%) is below the conditional chance (%d%%)", rain.CancelChanceAbove, rain.ConditionalChanceAbove)
	}
	if rain.CancelPrecipAboveMm < rain.ConditionalPrecipAboveMm {
		return fmt.Errorf("forecast cancel precipitation (%.2f mm) is below the conditional precipitation (%.2f mm)", rain.CancelPrecipAboveMm, rain.ConditionalPrecipAboveMm)
	}

	if r.Wind.CancelAboveKph < r.Wind.ConditionalAboveKph {
		return fmt.Errorf("wind cancel threshold (%.1f km/h) is below the conditional threshold (%.1f km/h)", r.Wind.CancelAboveKph, r.Wind.ConditionalAboveKph)
	}
	if r.Visibility.CancelBelowKm < 0 {
		return fmt.Errorf("visibility threshold must not be negative, got %.1f km", r.Visibility.CancelBelowKm)
	}
	return nil
}
