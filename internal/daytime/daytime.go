// Package daytime provides a minute-precision time of day with no date component.
package daytime

import (
	"fmt"
	"time"

	apperrors "github.com/muaviaUsmani/gpaper/internal/errors"
	"gopkg.in/yaml.v3"
)

// MinutesPerDay is the number of distinct TimeOfDay values
const MinutesPerDay = 24 * 60

// layout is the 24-hour HH:MM format used in configuration files
const layout = "15:04"

// TimeOfDay is an hour/minute pair in a 24-hour cycle.
// The zero value is midnight.
type TimeOfDay struct {
	hour   uint8
	minute uint8
}

// New returns the time of day for hour in [0,23] and minute in [0,59]
func New(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hour %d out of range", apperrors.ErrTimeParse, hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute %d out of range", apperrors.ErrTimeParse, minute)
	}
	return TimeOfDay{hour: uint8(hour), minute: uint8(minute)}, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and constants.
func MustNew(hour, minute int) TimeOfDay {
	t, err := New(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse parses a 24-hour HH:MM string
func Parse(s string) (TimeOfDay, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w %q: %v", apperrors.ErrTimeParse, s, err)
	}
	return TimeOfDay{hour: uint8(t.Hour()), minute: uint8(t.Minute())}, nil
}

// FromTime returns the time of day of t in t's location, truncated to the minute
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{hour: uint8(t.Hour()), minute: uint8(t.Minute())}
}

// Hour returns the hour in [0,23]
func (t TimeOfDay) Hour() int { return int(t.hour) }

// Minute returns the minute in [0,59]
func (t TimeOfDay) Minute() int { return int(t.minute) }

// Minutes returns the number of minutes since midnight
func (t TimeOfDay) Minutes() int {
	return int(t.hour)*60 + int(t.minute)
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or after u
func (t TimeOfDay) Compare(u TimeOfDay) int {
	switch a, b := t.Minutes(), u.Minutes(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier than u
func (t TimeOfDay) Before(u TimeOfDay) bool { return t.Compare(u) < 0 }

// After reports whether t is strictly later than u
func (t TimeOfDay) After(u TimeOfDay) bool { return t.Compare(u) > 0 }

// Equal reports whether t and u denote the same minute
func (t TimeOfDay) Equal(u TimeOfDay) bool { return t == u }

// String renders t as HH:MM
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// MarshalYAML implements yaml.Marshaler
func (t TimeOfDay) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (t *TimeOfDay) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
