package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName  = "config.yaml"
	ConfigDirName   = ".viewpoint"
	GlobalConfigDir = ".config/viewpoint"
)

// Loader discovers and loads the project configuration.
type Loader struct {
	startDir string
}

// NewLoader creates a loader that searches upward from startDir.
func NewLoader(startDir string) *Loader {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			startDir = "."
		}
	}
	return &Loader{startDir: startDir}
}

// Load finds the config file, applies environment overrides, and validates
// the result. A project with no config file runs on defaults.
func (l *Loader) Load() (*Config, error) {
	var cfg *Config
	configPath, err := l.findConfigFile()
	if err != nil {
		cfg = DefaultConfig()
	} else {
		cfg, err = l.loadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	}

	l.applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile searches upward from the start directory, then falls back
// to the global config under the user's home.
func (l *Loader) findConfigFile() (string, error) {
	dir := l.startDir
	for {
		configPath := filepath.Join(dir, ConfigDirName, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalConfig := filepath.Join(homeDir, GlobalConfigDir, ConfigFileName)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched upward from %s)", l.startDir)
}

func (l *Loader) loadFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// File values overlay the defaults, so partial configs stay valid.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VIEWPOINT_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Browser.Headless = b
		}
	}
	if v := os.Getenv("VIEWPOINT_CHROME_PATH"); v != "" {
		cfg.Browser.ChromePath = v
	}
	if v := os.Getenv("VIEWPOINT_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("VIEWPOINT_CURRENT_ENV"); v != "" {
		cfg.Current = v
	}
}

// Save writes the configuration to the given path, stamping UpdatedAt.
func (l *Loader) Save(cfg *Config, configPath string) error {
	cfg.Meta.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConfigPath returns the path where a new project config should be created.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.startDir, ConfigDirName, ConfigFileName)
}

// IsInitialized reports whether a config file exists in the project
// hierarchy.
func (l *Loader) IsInitialized() bool {
	_, err := l.findConfigFile()
	return err == nil
}

// ProjectRoot returns the directory containing the .viewpoint folder, or
// the start directory when the project is uninitialized.
func (l *Loader) ProjectRoot() string {
	configPath, err := l.findConfigFile()
	if err != nil {
		return l.startDir
	}
	return filepath.Dir(filepath.Dir(configPath))
}

// Resolve turns a config-relative path into an absolute one under the
// project root.
func (l *Loader) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.ProjectRoot(), path)
}
