package decision

import "training-weather/internal/models"

// Display-only signal levels used to colour individual readings. They use the
// club's fixed limits and do not depend on which rules are enabled.
const (
	precipCancelMm      = 1.0
	precipConditionalMm = 0.3
	windCancelKph       = 35.0
	windConditionalKph  = 20.0
	chanceCancelPct     = 80
	chanceConditional   = 50
)

func PrecipitationLevel(mm float64) models.Recommendation {
	switch {
	case mm > precipCancelMm:
		return models.Cancel
	case mm > precipConditionalMm:
		return models.Conditional
	default:
		return models.Go
	}
}

func WindLevel(kph float64) models.Recommendation {
	switch {
	case kph > windCancelKph:
		return models.Cancel
	case kph > windConditionalKph:
		return models.Conditional
	default:
		return models.Go
	}
}

func ChanceOfRainLevel(pct int) models.Recommendation {
	switch {
	case pct > chanceCancelPct:
		return models.Cancel
	case pct > chanceConditional:
		return models.Conditional
	default:
		return models.Go
	}
}

// LegendEntry describes when a recommendation is given
type LegendEntry struct {
	Recommendation models.Recommendation
	Conditions     []string
}

// Legend lists the conditions behind each label
func Legend() []LegendEntry {
	return []LegendEntry{
		{Recommendation: models.Go, Conditions: []string{"Precipitation below 0.3 mm", "No thunderstorms"}},
		{Recommendation: models.Conditional, Conditions: []string{"Precipitation 0.3 - 1 mm", "Chance of rain above 50%"}},
		{Recommendation: models.Cancel, Conditions: []string{"Chance of rain above 80% and precipitation above 1 mm", "Thunderstorm"}},
	}
}
