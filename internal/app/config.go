package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"polybars/internal/fetch"
	"polybars/internal/provider"
)

// Config holds application configuration from defaults, an optional yaml file and env.
type Config struct {
	APIKey            string        `yaml:"api_key"`
	Backend           string        `yaml:"backend" default:"sdk" validate:"oneof=sdk rest"`
	BaseURL           string        `yaml:"base_url" default:"https://api.polygon.io" validate:"url"`
	MarketTZ          string        `yaml:"market_tz" default:"America/New_York" validate:"required"`
	RequestsPerMinute int           `yaml:"requests_per_minute" default:"5" validate:"gte=1,lte=6000"`
	MinuteChunkDays   int           `yaml:"minute_chunk_days" default:"7" validate:"gte=1,lte=52"`
	HourChunkDays     int           `yaml:"hour_chunk_days" default:"30" validate:"gte=1,lte=52"`
	ResultLimit       int           `yaml:"result_limit" default:"50000" validate:"gte=1,lte=50000"`
	Adjusted          bool          `yaml:"adjusted" default:"true"`
	RequestTimeout    time.Duration `yaml:"request_timeout" default:"2m" validate:"gt=0"`
	DataDir           string        `yaml:"data_dir" default:"data" validate:"required"`
	SaveFormat        string        `yaml:"save_format" default:"csv" validate:"oneof=csv parquet json"`
	LogLevel          string        `yaml:"log_level" default:"info" validate:"oneof=debug info warn warning error"` // debug | info | warn | error
	LogFile           string        `yaml:"log_file"`
	MetricsFile       string        `yaml:"metrics_file"`
}

var validate = validator.New()

// baseBarsPerDay is the minute aggregates in one extended session
// (04:00 to 20:00). The provider's limit counts these base aggregates, so
// a chunk of N days needs a limit of at least N*baseBarsPerDay to fit one page.
const baseBarsPerDay = 16 * 60

// LoadConfig reads .env (if present), then path (if set), then env overrides, and validates.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.APIKey = getEnv("POLYGON_API_KEY", c.APIKey)
	c.Backend = strings.ToLower(getEnv("POLYGON_BACKEND", c.Backend))
	c.BaseURL = getEnv("POLYGON_BASE_URL", c.BaseURL)
	c.MarketTZ = getEnv("MARKET_TZ", c.MarketTZ)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.SaveFormat = strings.ToLower(getEnv("SAVE_FORMAT", c.SaveFormat))
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.MetricsFile = getEnv("METRICS_FILE", c.MetricsFile)

	var err error
	if c.RequestsPerMinute, err = getEnvInt("REQUESTS_PER_MINUTE", c.RequestsPerMinute); err != nil {
		return err
	}
	if c.MinuteChunkDays, err = getEnvInt("MINUTE_CHUNK_DAYS", c.MinuteChunkDays); err != nil {
		return err
	}
	if c.HourChunkDays, err = getEnvInt("HOUR_CHUNK_DAYS", c.HourChunkDays); err != nil {
		return err
	}
	if c.ResultLimit, err = getEnvInt("RESULT_LIMIT", c.ResultLimit); err != nil {
		return err
	}
	if v := os.Getenv("POLYGON_ADJUSTED"); v != "" {
		if c.Adjusted, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("POLYGON_ADJUSTED: %w", err)
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if c.RequestTimeout, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
	}
	return nil
}

// Validate checks field rules and that MarketTZ names a known zone.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, errorMessage(fe))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.MarketTZ); err != nil {
		return fmt.Errorf("invalid config: MarketTZ %q: %w", c.MarketTZ, err)
	}
	for name, days := range map[string]int{"MinuteChunkDays": c.MinuteChunkDays, "HourChunkDays": c.HourChunkDays} {
		if days*baseBarsPerDay > c.ResultLimit {
			return fmt.Errorf("invalid config: %s %d needs ResultLimit of at least %d", name, days, days*baseBarsPerDay)
		}
	}
	return nil
}

func errorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s %q failed validation: %s", field, fe.Value(), fe.Tag())
		}
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Location returns the market timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.MarketTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MinDelay is the spacing between requests that keeps under RequestsPerMinute.
func (c *Config) MinDelay() time.Duration {
	return fetch.DelayFor(c.RequestsPerMinute)
}

// ChunkPolicy returns the per-timespan day caps.
func (c *Config) ChunkPolicy() fetch.ChunkPolicy {
	return fetch.ChunkPolicy{MinuteDays: c.MinuteChunkDays, HourDays: c.HourChunkDays}
}

// PolygonOptions maps config onto provider options.
func (c *Config) PolygonOptions() provider.PolygonOptions {
	return provider.PolygonOptions{
		APIKey:   c.APIKey,
		Backend:  provider.Backend(c.Backend),
		BaseURL:  c.BaseURL,
		Timeout:  c.RequestTimeout,
		Limit:    c.ResultLimit,
		Adjusted: c.Adjusted,
		Location: c.Location(),
	}
}
