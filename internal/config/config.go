package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the monitor configuration.
const (
	DefaultPollInterval    = 10 * time.Second
	DefaultHistory         = 120
	DefaultRegistry        = "original"
	DefaultDisplayInterval = 900 * time.Millisecond
	DefaultLogLevel        = "info"
	DefaultLogMaxSizeMB    = 20
	DefaultLogMaxBackups   = 3
)

// Config is the full configuration tree parsed from config.yaml.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Display   DisplayConfig   `yaml:"display"`
}

// LoggingConfig controls the JSON log stream.
type LoggingConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`

	// File, when set, additionally writes logs to this path with size-based
	// rotation. Stdout always receives the stream.
	File string `yaml:"file"`

	// MaxSizeMB caps a log file's size before rotation (default 20).
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is how many rotated files to retain (default 3).
	MaxBackups int `yaml:"max_backups"`
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TelemetryConfig describes where readings come from and how many to keep.
type TelemetryConfig struct {
	// Source is the path of the exposition drop file the external fetcher
	// refreshes. Required.
	Source string `yaml:"source"`

	// PollInterval is how often the drop file is re-read (default 10s).
	PollInterval time.Duration `yaml:"poll_interval"`

	// History caps the readings retained per channel (default 120).
	History int `yaml:"history"`
}

// AlertsConfig selects the live trigger registry.
type AlertsConfig struct {
	// Registry is one of: original | new. Hot-reloadable.
	Registry string `yaml:"registry"`
}

// DisplayConfig controls the clock board.
type DisplayConfig struct {
	// Enabled turns the board on or off entirely (default true).
	Enabled bool `yaml:"enabled"`

	// Interval is the refresh cadence (default 900ms).
	Interval time.Duration `yaml:"interval"`

	// UTC, Local and WSMR toggle the individual clock lines (all default true).
	UTC   bool `yaml:"utc"`
	Local bool `yaml:"local"`
	WSMR  bool `yaml:"wsmr"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values. Booleans that
// default to true are set here so a file that omits them keeps them on.
func defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
		Telemetry: TelemetryConfig{
			PollInterval: DefaultPollInterval,
			History:      DefaultHistory,
		},
		Alerts: AlertsConfig{
			Registry: DefaultRegistry,
		},
		Display: DisplayConfig{
			Enabled:  true,
			Interval: DefaultDisplayInterval,
			UTC:      true,
			Local:    true,
			WSMR:     true,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("logging.level %q unknown: want debug|info|warn|error", cfg.Logging.Level)
	}
	if cfg.Telemetry.Source == "" {
		return fmt.Errorf("telemetry.source is required")
	}
	if cfg.Telemetry.PollInterval <= 0 {
		return fmt.Errorf("telemetry.poll_interval %v must be positive", cfg.Telemetry.PollInterval)
	}
	if cfg.Telemetry.History <= 0 {
		return fmt.Errorf("telemetry.history %d must be positive", cfg.Telemetry.History)
	}
	switch cfg.Alerts.Registry {
	case "original", "new":
	default:
		return fmt.Errorf("alerts.registry %q unknown: want original|new", cfg.Alerts.Registry)
	}
	if cfg.Display.Interval <= 0 {
		return fmt.Errorf("display.interval %v must be positive", cfg.Display.Interval)
	}
	return nil
}
