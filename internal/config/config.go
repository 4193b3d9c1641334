// Package config loads the gpaper configuration file and environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/muaviaUsmani/gpaper/internal/image"
	"github.com/muaviaUsmani/gpaper/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for gpaper
type Config struct {
	// DebugMode selects the log file sink
	DebugMode DebugMode `yaml:"debug_mode"`
	// Accuracy is the daemon poll interval
	Accuracy Accuracy `yaml:"accuracy"`
	// IsActive indicates if the daemon polls at start
	IsActive bool `yaml:"is_active"`
	// Images are the raw schedule entries, in file order
	Images []image.Descriptor `yaml:"images"`
	// Wallpaper configures the desktop integration command
	Wallpaper WallpaperConfig `yaml:"wallpaper"`

	// Logging is derived from DebugMode and LOG_* variables
	Logging *logger.Config `yaml:"-"`
	// Path is the file the configuration was loaded from
	Path string `yaml:"-"`
}

// WallpaperConfig configures the gsettings invocation
type WallpaperConfig struct {
	// Schema is the GSettings schema holding the background keys
	Schema string `yaml:"schema"`
	// Keys are set to the image URI, e.g. picture-uri and picture-uri-dark
	Keys []string `yaml:"keys"`
	// CommandTimeout bounds a single gsettings run
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// Default returns the configuration used for anything the file leaves out
func Default() *Config {
	cfg := &Config{
		DebugMode: DebugTempFile,
		Accuracy:  AccuracyStandard,
		IsActive:  true,
		Wallpaper: WallpaperConfig{
			Schema:         "org.gnome.desktop.background",
			Keys:           []string{"picture-uri", "picture-uri-dark"},
			CommandTimeout: 5 * time.Second,
		},
	}
	cfg.Logging = loadLoggingConfig(cfg.DebugMode)
	return cfg
}

// DefaultPath returns $XDG_CONFIG_HOME/gpaper/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "gpaper", "config.yaml")
}

// Load reads the YAML file at path, applies environment overrides and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Path = path

	return cfg, nil
}

// Parse decodes a YAML document on top of Default, applies environment
// overrides and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Logging = loadLoggingConfig(cfg.DebugMode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides file values with GPAPER_* environment variables
func (c *Config) applyEnv() error {
	if v := getEnv("GPAPER_DEBUG_MODE", ""); v != "" {
		mode, err := ParseDebugMode(v)
		if err != nil {
			return fmt.Errorf("GPAPER_DEBUG_MODE: %w", err)
		}
		c.DebugMode = mode
	}

	if v := getEnv("GPAPER_ACCURACY", ""); v != "" {
		accuracy, err := ParseAccuracy(v)
		if err != nil {
			return fmt.Errorf("GPAPER_ACCURACY: %w", err)
		}
		c.Accuracy = accuracy
	}

	c.IsActive = getEnvAsBool("GPAPER_ACTIVE", c.IsActive)
	c.Wallpaper.CommandTimeout = getEnvAsDuration("GPAPER_COMMAND_TIMEOUT", c.Wallpaper.CommandTimeout)

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, ok := debugModeNames[c.DebugMode]; !ok {
		return fmt.Errorf("invalid debug mode: %d", int(c.DebugMode))
	}
	if _, ok := accuracyNames[c.Accuracy]; !ok {
		return fmt.Errorf("invalid accuracy: %d", int(c.Accuracy))
	}

	if strings.TrimSpace(c.Wallpaper.Schema) == "" {
		return fmt.Errorf("wallpaper schema cannot be empty")
	}
	if len(c.Wallpaper.Keys) == 0 {
		return fmt.Errorf("wallpaper keys must contain at least one key")
	}
	for _, key := range c.Wallpaper.Keys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("wallpaper key cannot be empty")
		}
	}
	if c.Wallpaper.CommandTimeout <= 0 {
		return fmt.Errorf("wallpaper command timeout must be > 0 (got %v)", c.Wallpaper.CommandTimeout)
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return fmt.Errorf("invalid logging config: %w", err)
		}
	}

	return nil
}

// loadLoggingConfig maps the debug mode onto the file tier and reads LOG_* overrides
func loadLoggingConfig(mode DebugMode) *logger.Config {
	cfg := logger.DefaultConfig()

	if level := getEnv("LOG_LEVEL", ""); level != "" {
		cfg.Level = logger.LogLevel(level)
	}
	if format := getEnv("LOG_FORMAT", ""); format != "" {
		cfg.Format = logger.LogFormat(format)
	}
	cfg.Console.Color = getEnvAsBool("LOG_COLOR", cfg.Console.Color)

	if path, ok := mode.Location(); ok {
		cfg.File.Enabled = true
		cfg.File.Path = path
	}
	cfg.File.MaxSizeMB = getEnvAsInt("LOG_FILE_MAX_SIZE_MB", cfg.File.MaxSizeMB)
	cfg.File.MaxBackups = getEnvAsInt("LOG_FILE_MAX_BACKUPS", cfg.File.MaxBackups)

	return cfg
}
