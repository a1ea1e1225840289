// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration.
type Config struct {
	Overview OverviewConfig
	Logging  LogConfig
	Prefs    PrefsConfig
	Metrics  MetricsConfig
}

// OverviewConfig holds the overview's timings and layout constants.
type OverviewConfig struct {
	OpenDuration       time.Duration `envconfig:"OVERVIEW_OPEN_DURATION" default:"200ms"`
	CloseDuration      time.Duration `envconfig:"OVERVIEW_CLOSE_DURATION" default:"290ms"`
	RepositionDuration time.Duration `envconfig:"OVERVIEW_REPOSITION_DURATION" default:"200ms"`
	ScrollDebounce     time.Duration `envconfig:"OVERVIEW_SCROLL_DEBOUNCE" default:"500ms"`
	ScrollDeadzone     float64       `envconfig:"OVERVIEW_SCROLL_DEADZONE" default:"0.3"`
	OverlapMargin      int           `envconfig:"OVERVIEW_OVERLAP_MARGIN" default:"150"`
	IconSize           int           `envconfig:"OVERVIEW_ICON_SIZE" default:"64"`
	IconSpacing        int           `envconfig:"OVERVIEW_ICON_SPACING" default:"16"`
	IconMargin         int           `envconfig:"OVERVIEW_ICON_MARGIN" default:"64"`
	KeepKeybindings    bool          `envconfig:"OVERVIEW_KEEP_KEYBINDINGS" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	Output      string `envconfig:"LOG_OUTPUT" default:"wsoverview.log"`
}

// PrefsConfig locates the preference file. Empty means defaults only.
type PrefsConfig struct {
	File string `envconfig:"PREFS_FILE"`
}

// MetricsConfig holds the Prometheus listener address. Empty disables it.
type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from the environment or returns Default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Overview: DefaultOverview(),
		Logging: LogConfig{
			Level:  "info",
			Output: "wsoverview.log",
		},
	}
}

// DefaultOverview returns the overview defaults on their own, for tests and
// embedders that do not read the environment.
func DefaultOverview() OverviewConfig {
	return OverviewConfig{
		OpenDuration:       200 * time.Millisecond,
		CloseDuration:      290 * time.Millisecond,
		RepositionDuration: 200 * time.Millisecond,
		ScrollDebounce:     500 * time.Millisecond,
		ScrollDeadzone:     0.3,
		OverlapMargin:      150,
		IconSize:           64,
		IconSpacing:        16,
		IconMargin:         64,
		KeepKeybindings:    true,
	}
}
