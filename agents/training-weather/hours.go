package trainingweather

import (
	"training-weather/internal/models"
	"training-weather/shared/config"
)

// FilterHours keeps forecast hours whose local hour falls in [start, end]
func FilterHours(hours []models.Observation, start, end int) ([]models.Observation, error) {
	if err := config.ValidateHours(start, end); err != nil {
		return nil, err
	}

	filtered := make([]models.Observation, 0, end-start+1)
	for _, h := range hours {
		if hr := h.Time.Hour(); hr >= start && hr <= end {
			filtered = append(filtered, h)
		}
	}
	return filtered, nil
}
