// Package config loads application configuration from the environment and
// an optional demandsim.yaml file. All simulation parameters are explicit
// here; the domain packages never read the environment themselves.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// Defaults mirror the reference dataset: one hundred items over a nominal
// ten year span.
const (
	DefaultSpanDays  = 3650
	DefaultItemCount = 100
	DefaultSeed      = 42
)

var (
	ErrInvalidSpan      = errors.New("invalid_span")
	ErrInvalidItemCount = errors.New("invalid_item_count")
	ErrInvalidWorkers   = errors.New("invalid_workers")
)

// Config holds application configuration.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	LogLevel string `mapstructure:"log_level"`

	Seed      int64  `mapstructure:"seed"`
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`
	SpanDays  int    `mapstructure:"span_days"`
	ItemCount int    `mapstructure:"item_count"`
	Workers   int    `mapstructure:"workers"`

	OutputDir string `mapstructure:"output_dir"`

	Stages StageConfig `mapstructure:"stages"`
}

// StageConfig toggles individual pipeline stages.
type StageConfig struct {
	Simulate  bool `mapstructure:"simulate"`
	Aggregate bool `mapstructure:"aggregate"`
	Holidays  bool `mapstructure:"holidays"`
}

// Load reads configuration from .env, demandsim.yaml and DEMANDSIM_* env vars.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("demandsim")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("DEMANDSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_name", "demandsim")
	v.SetDefault("log_level", "info")
	v.SetDefault("seed", DefaultSeed)
	v.SetDefault("span_days", DefaultSpanDays)
	v.SetDefault("item_count", DefaultItemCount)
	v.SetDefault("workers", 1)
	v.SetDefault("output_dir", "data")
	v.SetDefault("stages.simulate", true)
	v.SetDefault("stages.aggregate", true)
	v.SetDefault("stages.holidays", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks span, item count and worker settings before any stage runs.
func (c Config) Validate() error {
	if c.ItemCount <= 0 {
		return fmt.Errorf("%w: item_count must be positive, got %d", ErrInvalidItemCount, c.ItemCount)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, c.Workers)
	}
	if _, _, err := c.Span(time.Now().UTC()); err != nil {
		return err
	}
	return nil
}

// Span resolves the simulation date range. When start_date is unset the span
// ends at now and reaches span_days back, matching the reference dataset.
// Both bounds are truncated to UTC midnight.
func (c Config) Span(now time.Time) (start, end time.Time, err error) {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}

	if c.StartDate == "" {
		if c.SpanDays <= 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: span_days must be positive, got %d", ErrInvalidSpan, c.SpanDays)
		}
		end = day(now)
		start = end.AddDate(0, 0, -c.SpanDays)
		return start, end, nil
	}

	start, err = time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", ErrInvalidSpan, err)
	}
	if c.EndDate != "" {
		end, err = time.Parse(dateLayout, c.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", ErrInvalidSpan, err)
		}
	} else {
		if c.SpanDays <= 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: span_days must be positive, got %d", ErrInvalidSpan, c.SpanDays)
		}
		end = start.AddDate(0, 0, c.SpanDays)
	}
	start, end = day(start), day(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidSpan, end.Format(dateLayout), start.Format(dateLayout))
	}
	return start, end, nil
}
