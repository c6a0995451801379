package trainingweather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"training-weather/internal/models"
	"training-weather/shared/config"
	"training-weather/shared/monitoring"
)

const (
	endpointCurrent  = "current"
	endpointForecast = "forecast"

	providerTimeLayout = "2006-01-02 15:04"
	maxResponseBytes   = 4 << 20
)

// WeatherClient handles interactions with the WeatherAPI.com API
type WeatherClient struct {
	config  *config.WeatherConfig
	client  *http.Client
	metrics *monitoring.Metrics
}

// apiResponse is the union of the current.json and forecast.json payloads
type apiResponse struct {
	Error    *apiError    `json:"error"`
	Location *apiLocation `json:"location"`
	Current  *apiReading  `json:"current"`
	Forecast *struct {
		ForecastDay []struct {
			Date string       `json:"date"`
			Hour []apiReading `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type apiLocation struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TzID      string  `json:"tz_id"`
	LocalTime string  `json:"localtime"`
}

// apiReading uses pointers so missing numbers are detected instead of read as zero
type apiReading struct {
	Time         string   `json:"time"`
	LastUpdated  string   `json:"last_updated"`
	TempC        *float64 `json:"temp_c"`
	PrecipMm     *float64 `json:"precip_mm"`
	WindKph      *float64 `json:"wind_kph"`
	VisKm        *float64 `json:"vis_km"`
	UV           *float64 `json:"uv"`
	ChanceOfRain *float64 `json:"chance_of_rain"`
	Thunder      flexBool `json:"thunder"`
	Condition    struct {
		Text string `json:"text"`
		Icon string `json:"icon"`
	} `json:"condition"`
}

// flexBool accepts true/false, 0/1 and their string forms. Absent or null is false.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "", "null", "false", "0", "no":
		*b = false
		return nil
	case "true", "1", "yes":
		*b = true
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*b = n != 0
		return nil
	}
	return fmt.Errorf("cannot read %s as a boolean", string(data))
}

func NewWeatherClient(cfg *config.WeatherConfig, metrics *monitoring.Metrics) *WeatherClient {
	return &WeatherClient{
		config:  cfg,
		metrics: metrics,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GetCurrentWeather fetches current conditions for a location query (name or "lat,lon")
func (w *WeatherClient) GetCurrentWeather(ctx context.Context, location string) (*models.CurrentConditions, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("aqi", "no")

	log.Printf("Fetching current weather for %q", location)

	resp, err := w.fetch(ctx, endpointCurrent, params)
	if err != nil {
		return nil, err
	}
	if resp.Location == nil {
		return nil, &ParseError{Field: "location", Err: errMissingField}
	}
	if resp.Current == nil {
		return nil, &ParseError{Field: "current", Err: errMissingField}
	}

	tz := loadTimezone(resp.Location.TzID)
	obs, err := resp.Current.observation(tz, false)
	if err != nil {
		return nil, err
	}

	return &models.CurrentConditions{
		Location:    resp.Location.model(),
		Observation: obs,
	}, nil
}

// GetHourlyForecast fetches today's hourly forecast for a location query
func (w *WeatherClient) GetHourlyForecast(ctx context.Context, location string) (*models.HourlyForecast, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("days", "1")
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	log.Printf("Fetching hourly forecast for %q", location)

	resp, err := w.fetch(ctx, endpointForecast, params)
	if err != nil {
		return nil, err
	}
	if resp.Location == nil {
		return nil, &ParseError{Field: "location", Err: errMissingField}
	}
	if resp.Forecast == nil || len(resp.Forecast.ForecastDay) == 0 {
		return nil, &ParseError{Field: "forecast.forecastday", Err: errMissingField}
	}

	tz := loadTimezone(resp.Location.TzID)
	day := resp.Forecast.ForecastDay[0]
	hours := make([]models.Observation, 0, len(day.Hour))
	for i, h := range day.Hour {
		obs, err := h.observation(tz, true)
		if err != nil {
			return nil, fmt.Errorf("forecast hour %d: %w", i, err)
		}
		hours = append(hours, obs)
	}

	return &models.HourlyForecast{
		Location: resp.Location.model(),
		Hours:    hours,
	}, nil
}

// fetch performs one GET and separates transport, provider and parse failures
func (w *WeatherClient) fetch(ctx context.Context, endpoint string, params url.Values) (*apiResponse, error) {
	start := time.Now()
	resp, err := w.do(ctx, endpoint, params)
	w.metrics.ObserveProviderRequest(endpoint, outcome(err), time.Since(start))
	return resp, err
}

func (w *WeatherClient) do(ctx context.Context, endpoint string, params url.Values) (*apiResponse, error) {
	params.Set("key", w.config.APIKey)
	reqURL := fmt.Sprintf("%s/%s.json?%s", strings.TrimRight(w.config.BaseURL, "/"), endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read weather response: %w", err)}
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	var apiResp apiResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&apiResp); err != nil {
		if !success {
			return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
		}
		return nil, &ParseError{Err: fmt.Errorf("failed to decode weather response: %w", err)}
	}

	// The provider reports bad keys and unknown locations with an error envelope,
	// usually alongside a 4xx status.
	if apiResp.Error != nil {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       apiResp.Error.Code,
			Message:    apiResp.Error.Message,
		}
	}
	if !success {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	return &apiResp, nil
}

func (l *apiLocation) model() models.Location {
	return models.Location{
		Name:      l.Name,
		Region:    l.Region,
		Country:   l.Country,
		Latitude:  l.Lat,
		Longitude: l.Lon,
		LocalTime: l.LocalTime,
	}
}

func (r *apiReading) observation(tz *time.Location, forecast bool) (models.Observation, error) {
	required := []struct {
		name  string
		value *float64
	}{
		{"precip_mm", r.PrecipMm},
		{"wind_kph", r.WindKph},
		{"vis_km", r.VisKm},
		{"uv", r.UV},
		{"temp_c", r.TempC},
	}
	for _, f := range required {
		if f.value == nil {
			return models.Observation{}, &ParseError{Field: f.name, Err: errMissingField}
		}
	}

	obs := models.Observation{
		PrecipitationMm: *r.PrecipMm,
		HasThunder:      bool(r.Thunder),
		WindKph:         *r.WindKph,
		VisibilityKm:    *r.VisKm,
		UVIndex:         *r.UV,
		TempC:           *r.TempC,
		Condition:       models.Condition{Text: r.Condition.Text, Icon: r.Condition.Icon},
	}

	if forecast {
		if r.ChanceOfRain == nil {
			return models.Observation{}, &ParseError{Field: "chance_of_rain", Err: errMissingField}
		}
		chance := *r.ChanceOfRain
		if chance != math.Trunc(chance) {
			return models.Observation{}, &ParseError{Field: "chance_of_rain", Err: fmt.Errorf("expected a whole percentage, got %g", chance)}
		}
		obs.ChanceOfRainPct = models.Percent(int(chance))

		t, err := time.ParseInLocation(providerTimeLayout, r.Time, tz)
		if err != nil {
			return models.Observation{}, &ParseError{Field: "time", Err: err}
		}
		obs.Time = t
	} else if r.LastUpdated != "" {
		t, err := time.ParseInLocation(providerTimeLayout, r.LastUpdated, tz)
		if err != nil {
			log.Printf("Warning: Failed to parse last_updated %q: %v", r.LastUpdated, err)
		} else {
			obs.Time = t
		}
	}

	if err := obs.Validate(); err != nil {
		return models.Observation{}, &ParseError{Err: err}
	}
	return obs, nil
}

func loadTimezone(tzID string) *time.Location {
	if tzID == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(tzID)
	if err != nil {
		log.Printf("Warning: Failed to load timezone %s, using UTC: %v", tzID, err)
		return time.UTC
	}
	return location
}

func outcome(err error) string {
	var providerErr *ProviderError
	var transportErr *TransportError
	var parseErr *ParseError

	switch {
	case err == nil:
		return "success"
	case errors.As(err, &providerErr):
		return "provider_error"
	case errors.As(err, &transportErr):
		return "transport_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "error"
	}
}
