// Package config loads and validates the project configuration stored at
// .viewpoint/config.yaml. A project without a config file runs on defaults.
package config

import (
	"time"
)

// Config is the complete project configuration.
type Config struct {
	Browser BrowserConfig        `yaml:"browser"`
	Data    DataConfig           `yaml:"data"`
	Envs    map[string]EnvConfig `yaml:"environments"`
	Current string               `yaml:"current_env"`
	Meta    MetaConfig           `yaml:"meta"`
}

// BrowserConfig controls the Chrome session used for parsing and runs.
type BrowserConfig struct {
	Headless          bool   `yaml:"headless"`
	ChromePath        string `yaml:"chrome_path,omitempty"`
	WindowWidth       int    `yaml:"window_width"`
	WindowHeight      int    `yaml:"window_height"`
	NavigationTimeout int    `yaml:"navigation_timeout"` // seconds
	StepTimeout       int    `yaml:"step_timeout"`       // seconds
}

// DataConfig locates the project's on-disk artifacts. Relative paths are
// resolved against the project root.
type DataConfig struct {
	Dir           string `yaml:"dir"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	ReportDir     string `yaml:"report_dir"`
	HistoryDB     string `yaml:"history_db"`
}

// EnvConfig holds per-environment settings.
type EnvConfig struct {
	Name    string            `yaml:"name"`
	BaseURL string            `yaml:"base_url"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// MetaConfig tracks config file provenance.
type MetaConfig struct {
	Version   string    `yaml:"version"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	now := time.Now()
	return &Config{
		Browser: BrowserConfig{
			Headless:          true,
			WindowWidth:       1920,
			WindowHeight:      1080,
			NavigationTimeout: 30,
			StepTimeout:       15,
		},
		Data: DataConfig{
			Dir:           ".viewpoint/data",
			ScreenshotDir: ".viewpoint/screenshots",
			ReportDir:     ".viewpoint/reports",
			HistoryDB:     ".viewpoint/history.db",
		},
		Envs: map[string]EnvConfig{
			"development": {
				Name:    "development",
				BaseURL: "http://localhost:3000",
			},
		},
		Current: "development",
		Meta: MetaConfig{
			Version:   "1.0.0",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return NewValidationError("browser window dimensions must be positive")
	}
	if c.Browser.NavigationTimeout <= 0 {
		return NewValidationError("browser.navigation_timeout must be positive")
	}
	if c.Browser.StepTimeout <= 0 {
		return NewValidationError("browser.step_timeout must be positive")
	}
	if c.Data.Dir == "" {
		return NewValidationError("data.dir is required")
	}
	if c.Current != "" {
		if _, exists := c.Envs[c.Current]; !exists {
			return NewValidationError("current_env references non-existent environment: " + c.Current)
		}
	}
	return nil
}

// CurrentEnv returns the configuration for the current environment, or nil.
func (c *Config) CurrentEnv() *EnvConfig {
	if c.Current == "" {
		return nil
	}
	env, exists := c.Envs[c.Current]
	if !exists {
		return nil
	}
	return &env
}

// ValidationError is a configuration validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Message
}

// NewValidationError wraps a message in a ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
