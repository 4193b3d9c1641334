// Package errors defines the error kinds shared across gpaper packages and
// helpers for recovering panics raised while polling.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoHomeVar is returned when a location needs $HOME expanded but it is unset
	ErrNoHomeVar = errors.New("`$HOME` is not defined")

	// ErrInvalidLocation is returned when an image path does not resolve to an existing file
	ErrInvalidLocation = errors.New("invalid image location")

	// ErrCommandFailed is returned when the desktop integration command could not run
	ErrCommandFailed = errors.New("wallpaper command failed")

	// ErrNoImagesLoaded is returned when a schedule is finalized without images
	ErrNoImagesLoaded = errors.New("no images loaded")

	// ErrTooManyImages is returned when attaching an empty or full image list.
	// The limit is 1440 images: one per minute of the day.
	ErrTooManyImages = errors.New("the limit is 1440 images: 1 for minute")

	// ErrTimeParse is returned for malformed HH:MM strings
	ErrTimeParse = errors.New("invalid time of day")

	// ErrStageConsumed is returned when a lifecycle stage is used after it
	// was already transitioned into the next one
	ErrStageConsumed = errors.New("scheduler stage already consumed")
)

// LocationError reports an image location that could not be resolved
type LocationError struct {
	Path string // Location as written by the user
	Err  error  // Underlying filesystem error, may be nil
}

// Error implements the error interface
func (e *LocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("file `%s` doesn't exist: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("file `%s` doesn't exist", e.Path)
}

// Unwrap lets errors.Is match ErrInvalidLocation
func (e *LocationError) Unwrap() error {
	return ErrInvalidLocation
}

// CommandError reports a desktop integration command that failed to run or
// exited unsuccessfully
type CommandError struct {
	Command []string
	Reason  string
	Output  string
}

// Error implements the error interface
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("error executing command `%s`: %s", strings.Join(e.Command, " "), e.Reason)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// Unwrap lets errors.Is match ErrCommandFailed
func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}
