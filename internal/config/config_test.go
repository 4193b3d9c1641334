package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muaviaUsmani/gpaper/internal/logger"
)

// clearEnv unsets every variable the loader reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GPAPER_DEBUG_MODE", "GPAPER_ACCURACY", "GPAPER_ACTIVE", "GPAPER_COMMAND_TIMEOUT",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_COLOR", "LOG_FILE_MAX_SIZE_MB", "LOG_FILE_MAX_BACKUPS",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	if cfg.DebugMode != DebugTempFile {
		t.Errorf("Expected debug mode temp-file, got %s", cfg.DebugMode)
	}
	if cfg.Accuracy != AccuracyStandard {
		t.Errorf("Expected accuracy standard, got %s", cfg.Accuracy)
	}
	if !cfg.IsActive {
		t.Error("Expected config to be active by default")
	}
	if cfg.Wallpaper.Schema != "org.gnome.desktop.background" {
		t.Errorf("Unexpected schema %q", cfg.Wallpaper.Schema)
	}
	if len(cfg.Wallpaper.Keys) != 2 {
		t.Errorf("Expected 2 wallpaper keys, got %v", cfg.Wallpaper.Keys)
	}
	if cfg.Logging == nil || !cfg.Logging.File.Enabled || cfg.Logging.File.Path != "/tmp/gpaper.log" {
		t.Errorf("Expected file logging to /tmp/gpaper.log, got %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	if !strings.HasSuffix(path, filepath.Join("gpaper", "config.yaml")) {
		t.Errorf("Unexpected default path %q", path)
	}
}

func TestLoad_FullFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
debug_mode: off
accuracy: lazy
is_active: false
images:
  - start: "06:00"
    location: ~/Pictures/morning.png
  - start: "20:30"
    location: /usr/share/backgrounds/night.jpg
wallpaper:
  keys: [picture-uri]
  command_timeout: 2s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Path != path {
		t.Errorf("Expected path %q, got %q", path, cfg.Path)
	}
	if cfg.DebugMode != DebugOff {
		t.Errorf("Expected debug mode off, got %s", cfg.DebugMode)
	}
	if cfg.Accuracy != AccuracyLazy {
		t.Errorf("Expected accuracy lazy, got %s", cfg.Accuracy)
	}
	if cfg.IsActive {
		t.Error("Expected config to be inactive")
	}
	if len(cfg.Images) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(cfg.Images))
	}
	if cfg.Images[0].Start != "06:00" || cfg.Images[0].Location != "~/Pictures/morning.png" {
		t.Errorf("Unexpected first image %+v", cfg.Images[0])
	}
	if cfg.Images[1].Start != "20:30" {
		t.Errorf("Expected images to keep file order, got %+v", cfg.Images)
	}
	if len(cfg.Wallpaper.Keys) != 1 || cfg.Wallpaper.Keys[0] != "picture-uri" {
		t.Errorf("Unexpected keys %v", cfg.Wallpaper.Keys)
	}
	if cfg.Wallpaper.Schema != "org.gnome.desktop.background" {
		t.Errorf("Expected schema default to survive, got %q", cfg.Wallpaper.Schema)
	}
	if cfg.Wallpaper.CommandTimeout != 2*time.Second {
		t.Errorf("Expected timeout 2s, got %v", cfg.Wallpaper.CommandTimeout)
	}
	if cfg.Logging.File.Enabled {
		t.Error("Expected file logging disabled when debug mode is off")
	}
}

func TestLoad_NumericModes(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "debug_mode: 2\naccuracy: 3\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DebugMode != DebugFile {
		t.Errorf("Expected debug mode file, got %s", cfg.DebugMode)
	}
	if cfg.Accuracy != AccuracyHourly {
		t.Errorf("Expected accuracy hourly, got %s", cfg.Accuracy)
	}
	if !strings.HasSuffix(cfg.Logging.File.Path, filepath.Join("gpaper", "gpaper.log")) {
		t.Errorf("Unexpected log path %q", cfg.Logging.File.Path)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Expected empty file to load, got %v", err)
	}
	if len(cfg.Images) != 0 {
		t.Errorf("Expected no images, got %d", len(cfg.Images))
	}
	if !cfg.IsActive {
		t.Error("Expected defaults to apply to an empty file")
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "colour: blue\n"},
		{"invalid accuracy", "accuracy: sometimes\n"},
		{"accuracy out of range", "accuracy: 9\n"},
		{"invalid debug mode", "debug_mode: loud\n"},
		{"empty schema", "wallpaper:\n  schema: \"\"\n"},
		{"empty key", "wallpaper:\n  keys: [\"\"]\n"},
		{"zero timeout", "wallpaper:\n  command_timeout: 0s\n"},
		{"malformed yaml", "images: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GPAPER_DEBUG_MODE", "off")
	t.Setenv("GPAPER_ACCURACY", "half-hourly")
	t.Setenv("GPAPER_ACTIVE", "false")
	t.Setenv("GPAPER_COMMAND_TIMEOUT", "750ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(writeConfig(t, "debug_mode: file\naccuracy: standard\nis_active: true\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DebugMode != DebugOff {
		t.Errorf("Expected env to override debug mode, got %s", cfg.DebugMode)
	}
	if cfg.Accuracy != AccuracyHalfHourly {
		t.Errorf("Expected env to override accuracy, got %s", cfg.Accuracy)
	}
	if cfg.IsActive {
		t.Error("Expected env to deactivate")
	}
	if cfg.Wallpaper.CommandTimeout != 750*time.Millisecond {
		t.Errorf("Expected timeout 750ms, got %v", cfg.Wallpaper.CommandTimeout)
	}
	if cfg.Logging.Level != logger.LevelDebug {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != logger.FormatJSON {
		t.Errorf("Expected log format json, got %s", cfg.Logging.Format)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"GPAPER_DEBUG_MODE", "7"},
		{"GPAPER_ACCURACY", "often"},
		{"LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(writeConfig(t, "")); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestParseDebugMode(t *testing.T) {
	tests := []struct {
		input   string
		want    DebugMode
		wantErr bool
	}{
		{"0", DebugOff, false},
		{"1", DebugTempFile, false},
		{"2", DebugFile, false},
		{"off", DebugOff, false},
		{" Temp-File ", DebugTempFile, false},
		{"file", DebugFile, false},
		{"3", 0, true},
		{"-1", 0, true},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDebugMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDebugMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDebugMode(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDebugModeLocation(t *testing.T) {
	if _, ok := DebugOff.Location(); ok {
		t.Error("Expected no location for off")
	}
	if path, ok := DebugTempFile.Location(); !ok || path != "/tmp/gpaper.log" {
		t.Errorf("Unexpected temp-file location %q", path)
	}
	if path, ok := DebugFile.Location(); !ok || filepath.Base(path) != "gpaper.log" {
		t.Errorf("Unexpected file location %q", path)
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		accuracy Accuracy
		name     string
		duration time.Duration
		cron     string
	}{
		{AccuracyStandard, "standard", time.Minute, "* * * * *"},
		{AccuracyLazy, "lazy", 10 * time.Minute, "*/10 * * * *"},
		{AccuracyHalfHourly, "half-hourly", 30 * time.Minute, "*/30 * * * *"},
		{AccuracyHourly, "hourly", time.Hour, "0 * * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.accuracy.String() != tt.name {
				t.Errorf("String() = %s, want %s", tt.accuracy.String(), tt.name)
			}
			if tt.accuracy.Duration() != tt.duration {
				t.Errorf("Duration() = %v, want %v", tt.accuracy.Duration(), tt.duration)
			}
			if tt.accuracy.CronSpec() != tt.cron {
				t.Errorf("CronSpec() = %q, want %q", tt.accuracy.CronSpec(), tt.cron)
			}

			parsed, err := ParseAccuracy(tt.name)
			if err != nil || parsed != tt.accuracy {
				t.Errorf("ParseAccuracy(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}

	if _, err := ParseAccuracy("4"); err == nil {
		t.Error("Expected error for accuracy 4")
	}
}
