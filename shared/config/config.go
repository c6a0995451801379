package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"training-weather/internal/decision"
	"training-weather/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Weather    WeatherConfig    `yaml:"weather"`
	Training   TrainingConfig   `yaml:"training"`
	Radar      RadarConfig      `yaml:"radar"`
	AI         AIConfig         `yaml:"ai"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

type WeatherConfig struct {
	APIKey  string        `yaml:"api_key" env:"WEATHER_API_KEY"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type TrainingConfig struct {
	Location  string         `yaml:"location"`
	StartHour int            `yaml:"start_hour"`
	EndHour   int            `yaml:"end_hour"`
	Rules     decision.Rules `yaml:"rules"`
}

type RadarConfig struct {
	ImageURL string        `yaml:"image_url"`
	Bounds   [2][2]float64 `yaml:"bounds"` // [[north, west], [south, east]]
}

type AIConfig struct {
	Enabled      bool   `yaml:"enabled"`
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type EmailConfig struct {
	SMTPServer string   `yaml:"smtp_server"`
	SMTPPort   int      `yaml:"smtp_port"`
	Username   string   `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string   `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string   `yaml:"from_email"`
	ToEmail    string   `yaml:"to_email"`
	NotifyOn   []string `yaml:"notify_on"` // recommendations that trigger an email
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

// Enabled reports whether enough SMTP settings exist to send mail
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.ToEmail != ""
}

// ShouldNotify reports whether a report with the given status is worth an email
func (e EmailConfig) ShouldNotify(status models.Recommendation) bool {
	for _, s := range e.NotifyOn {
		if strings.EqualFold(s, status.String()) {
			return true
		}
	}
	return false
}

// Radar converts the radar settings to the report model
func (r RadarConfig) Radar() models.Radar {
	return models.Radar{ImageURL: r.ImageURL, Bounds: r.Bounds}
}

// Default returns a configuration with every optional value filled in
func Default() *Config {
	return &Config{
		Weather: WeatherConfig{
			BaseURL: "https://api.weatherapi.com/v1",
			Timeout: 30 * time.Second,
		},
		Training: TrainingConfig{
			Location:  "Kamnik",
			StartHour: 17,
			EndHour:   18,
			Rules:     decision.DefaultRules(),
		},
		Radar: RadarConfig{
			ImageURL: "https://meteo.arso.gov.si/uploads/probase/www/observ/radar/si0-rm-anim.gif",
			Bounds:   [2][2]float64{{47.625, 12.1}, {44.64, 17.44}},
		},
		AI: AIConfig{
			Model: "gemini-2.5-flash",
		},
		Email: EmailConfig{
			SMTPPort: 587,
			NotifyOn: []string{"GO", "CONDITIONAL", "CANCEL"},
		},
		Monitoring: MonitoringConfig{
			HealthPort: 8080,
		},
		Schedule: "0 0 15 * * *", // Daily at 3 PM, ahead of evening training
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	return LoadFile(configFile)
}

// LoadFile reads a config file over the defaults and applies environment overrides
func LoadFile(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.Weather.APIKey == "" {
		c.Weather.APIKey = os.Getenv("WEATHER_API_KEY")
	}
	if c.AI.GeminiAPIKey == "" {
		c.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Email.Username == "" {
		c.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if c.Email.Password == "" {
		c.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if loc := os.Getenv("TRAINING_LOCATION"); loc != "" {
		c.Training.Location = loc
	}
}

func (c *Config) validate() error {
	if c.Weather.APIKey == "" {
		return fmt.Errorf("weather API key is required (set WEATHER_API_KEY or weather.api_key)")
	}
	if c.Weather.BaseURL == "" {
		return fmt.Errorf("weather base URL cannot be empty")
	}
	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("weather timeout must be positive, got %s", c.Weather.Timeout)
	}
	if strings.TrimSpace(c.Training.Location) == "" {
		return fmt.Errorf("training location is required (set training.location or TRAINING_LOCATION)")
	}
	if err := ValidateHours(c.Training.StartHour, c.Training.EndHour); err != nil {
		return err
	}
	if err := c.Training.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid training rules: %w", err)
	}
	for _, s := range c.Email.NotifyOn {
		if _, err := models.ParseRecommendation(s); err != nil {
			return fmt.Errorf("invalid email.notify_on entry: %w", err)
		}
	}
	if c.Email.Enabled() {
		if c.Email.FromEmail == "" {
			return fmt.Errorf("email from address is required when smtp_server is set (email.from_email)")
		}
		if c.Email.Username == "" || c.Email.Password == "" {
			return fmt.Errorf("email credentials are required when smtp_server is set (EMAIL_USERNAME, EMAIL_PASSWORD)")
		}
	}
	if c.AI.Enabled && c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required when ai.enabled is true (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	return nil
}

// ValidateHours checks a training window expressed in local hours
func ValidateHours(start, end int) error {
	if start < 0 || start > 23 {
		return fmt.Errorf("start hour must be between 0 and 23, got %d", start)
	}
	if end < 0 || end > 23 {
		return fmt.Errorf("end hour must be between 0 and 23, got %d", end)
	}
	if start > end {
		return fmt.Errorf("start hour %d is after end hour %d", start, end)
	}
	return nil
}
