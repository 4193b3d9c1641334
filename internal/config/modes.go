package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DebugMode selects where errors are logged to disk
type DebugMode int

const (
	// DebugOff keeps logs on the console only
	DebugOff DebugMode = iota
	// DebugTempFile saves logs in /tmp/gpaper.log
	DebugTempFile
	// DebugFile saves logs in $XDG_CONFIG_HOME/gpaper/gpaper.log
	DebugFile
)

var debugModeNames = map[DebugMode]string{
	DebugOff:      "off",
	DebugTempFile: "temp-file",
	DebugFile:     "file",
}

// String implements fmt.Stringer
func (d DebugMode) String() string {
	if name, ok := debugModeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DebugMode(%d)", int(d))
}

// Location returns the log file for this mode, or false when file logging is off
func (d DebugMode) Location() (string, bool) {
	switch d {
	case DebugTempFile:
		return "/tmp/gpaper.log", true
	case DebugFile:
		return filepath.Join(xdg.ConfigHome, "gpaper", "gpaper.log"), true
	default:
		return "", false
	}
}

// ParseDebugMode accepts either the numeric value or the name of a mode
func ParseDebugMode(s string) (DebugMode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		d := DebugMode(n)
		if _, ok := debugModeNames[d]; ok {
			return d, nil
		}
		return 0, fmt.Errorf("invalid debug mode: %d (must be 0, 1 or 2)", n)
	}
	for d, name := range debugModeNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid debug mode: %q (must be one of: off, temp-file, file)", s)
}

// MarshalYAML implements yaml.Marshaler
func (d DebugMode) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *DebugMode) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDebugMode(node.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Accuracy selects how often the daemon polls the schedule
type Accuracy int

const (
	// AccuracyStandard polls every minute
	AccuracyStandard Accuracy = iota
	// AccuracyLazy polls every 10 minutes
	AccuracyLazy
	// AccuracyHalfHourly polls every half hour
	AccuracyHalfHourly
	// AccuracyHourly polls every hour
	AccuracyHourly
)

var accuracyNames = map[Accuracy]string{
	AccuracyStandard:   "standard",
	AccuracyLazy:       "lazy",
	AccuracyHalfHourly: "half-hourly",
	AccuracyHourly:     "hourly",
}

// String implements fmt.Stringer
func (a Accuracy) String() string {
	if name, ok := accuracyNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Accuracy(%d)", int(a))
}

// Duration returns the poll interval
func (a Accuracy) Duration() time.Duration {
	switch a {
	case AccuracyLazy:
		return 10 * time.Minute
	case AccuracyHalfHourly:
		return 30 * time.Minute
	case AccuracyHourly:
		return time.Hour
	default:
		return time.Minute
	}
}

// CronSpec returns a standard 5-field cron expression that fires on the
// poll interval, aligned to wall-clock boundaries
func (a Accuracy) CronSpec() string {
	switch a {
	case AccuracyLazy:
		return "*/10 * * * *"
	case AccuracyHalfHourly:
		return "*/30 * * * *"
	case AccuracyHourly:
		return "0 * * * *"
	default:
		return "* * * * *"
	}
}

// ParseAccuracy accepts either the numeric value or the name of an accuracy
func ParseAccuracy(s string) (Accuracy, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		a := Accuracy(n)
		if _, ok := accuracyNames[a]; ok {
			return a, nil
		}
		return 0, fmt.Errorf("invalid accuracy: %d (must be 0-3)", n)
	}
	for a, name := range accuracyNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("invalid accuracy: %q (must be one of: standard, lazy, half-hourly, hourly)", s)
}

// MarshalYAML implements yaml.Marshaler
func (a Accuracy) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (a *Accuracy) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseAccuracy(node.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
