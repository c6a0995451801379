package trainingweather

import (
	"testing"
	"time"

	"training-weather/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayHours() []models.Observation {
	base := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	hours := make([]models.Observation, 24)
	for i := range hours {
		hours[i] = models.Observation{Time: base.Add(time.Duration(i) * time.Hour)}
	}
	return hours
}

func TestFilterHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		want       []int
	}{
		{name: "evening window is inclusive", start: 17, end: 18, want: []int{17, 18}},
		{name: "single hour", start: 6, end: 6, want: []int{6}},
		{name: "whole day", start: 0, end: 23, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterHours(dayHours(), tt.start, tt.end)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Len(t, got, 24)
				return
			}
			var hours []int
			for _, h := range got {
				hours = append(hours, h.Time.Hour())
			}
			assert.Equal(t, tt.want, hours)
		})
	}
}

func TestFilterHoursNoMatches(t *testing.T) {
	got, err := FilterHours(dayHours()[:10], 17, 18)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilterHoursRejectsBadWindow(t *testing.T) {
	_, err := FilterHours(dayHours(), 18, 17)
	assert.Error(t, err)

	_, err = FilterHours(dayHours(), -1, 5)
	assert.Error(t, err)

	_, err = FilterHours(dayHours(), 5, 24)
	assert.Error(t, err)
}
