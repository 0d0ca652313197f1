// Package config loads svgcode-mcp settings from a TOML file.
//
// Every key is optional; Default supplies working values and the file only
// overrides what it names. A couple of settings can also be forced through
// environment variables so MCP client configurations do not need a file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment overrides.
const (
	EnvLogLevel = "SVGCODE_LOG_LEVEL"
	EnvLocale   = "SVGCODE_LOCALE"
	EnvConfig   = "SVGCODE_CONFIG"
)

// Log contains logger settings.
type Log struct {
	Level string `toml:"level"`
}

// Acquire contains image acquisition settings.
type Acquire struct {
	// Background decodes input off the calling goroutine.
	Background bool `toml:"background"`
	// MaxDimension downsizes larger inputs before tracing. 0 disables.
	MaxDimension int `toml:"max_dimension"`
}

// Trace contains tracer settings.
type Trace struct {
	Threshold          int     `toml:"threshold"`
	BlurRadius         float64 `toml:"blur_radius"`
	Colors             int     `toml:"colors"`
	ProgressIntervalMS int     `toml:"progress_interval_ms"`
}

// Notify contains notification settings.
type Notify struct {
	DurationMS int `toml:"duration_ms"`
}

// I18n contains localization settings.
type I18n struct {
	Locale string `toml:"locale"`
}

// Config is the complete configuration.
type Config struct {
	Log     Log     `toml:"log"`
	Acquire Acquire `toml:"acquire"`
	Trace   Trace   `toml:"trace"`
	Notify  Notify  `toml:"notify"`
	I18n    I18n    `toml:"i18n"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:     Log{Level: "info"},
		Acquire: Acquire{Background: true, MaxDimension: 2048},
		Trace: Trace{
			Threshold:          128,
			BlurRadius:         0,
			Colors:             16,
			ProgressIntervalMS: 100,
		},
		Notify: Notify{DurationMS: 3000},
		I18n:   I18n{Locale: "en"},
	}
}

// DefaultConfigPath returns ~/.config/svgcode-mcp/config.toml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "svgcode-mcp", "config.toml"), nil
}

// Load reads path (or SVGCODE_CONFIG, or the default path when both are
// empty), applies environment overrides and validates the result. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfig); env != "" {
			path, explicit = env, true
		}
	}
	if !explicit {
		p, err := DefaultConfigPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.I18n.Locale = v
	}
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.I18n.Locale = strings.TrimSpace(c.I18n.Locale)
	if c.I18n.Locale == "" {
		c.I18n.Locale = "en"
	}
	if c.Notify.DurationMS == 0 {
		c.Notify.DurationMS = 3000
	}
	if c.Trace.ProgressIntervalMS == 0 {
		c.Trace.ProgressIntervalMS = 100
	}
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Acquire.MaxDimension < 0:
		return fmt.Errorf("acquire.max_dimension must be >= 0, got %d", c.Acquire.MaxDimension)
	case c.Trace.Threshold < 0 || c.Trace.Threshold > 255:
		return fmt.Errorf("trace.threshold must be within 0-255, got %d", c.Trace.Threshold)
	case c.Trace.BlurRadius < 0:
		return fmt.Errorf("trace.blur_radius must be >= 0, got %g", c.Trace.BlurRadius)
	case c.Trace.Colors < 2 || c.Trace.Colors > 256:
		return fmt.Errorf("trace.colors must be within 2-256, got %d", c.Trace.Colors)
	case c.Trace.ProgressIntervalMS < 0:
		return fmt.Errorf("trace.progress_interval_ms must be > 0, got %d", c.Trace.ProgressIntervalMS)
	case c.Notify.DurationMS < 0:
		return fmt.Errorf("notify.duration_ms must be > 0, got %d", c.Notify.DurationMS)
	}
	return nil
}

// ProgressInterval returns the progress reporting period.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Trace.ProgressIntervalMS) * time.Millisecond
}

// NotifyDuration returns how long result notifications stay visible.
func (c *Config) NotifyDuration() time.Duration {
	return time.Duration(c.Notify.DurationMS) * time.Millisecond
}
