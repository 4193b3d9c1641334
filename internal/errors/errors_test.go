package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestLocationError_Is(t *testing.T) {
	err := error(&LocationError{Path: "~/missing.png"})

	if !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("expected LocationError to match ErrInvalidLocation")
	}
	if !strings.Contains(err.Error(), "~/missing.png") {
		t.Errorf("expected message to name the path, got %q", err.Error())
	}
}

func TestCommandError_Is(t *testing.T) {
	err := error(&CommandError{
		Command: []string{"gsettings", "set", "org.gnome.desktop.background", "picture-uri", "file:///a.png"},
		Reason:  "exit status 1",
		Output:  "No such schema\n",
	})

	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("expected CommandError to match ErrCommandFailed")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("expected errors.As to find CommandError")
	}
	if !strings.HasSuffix(err.Error(), "No such schema") {
		t.Errorf("expected trimmed output at end of message, got %q", err.Error())
	}
}

func TestRecoverPanic(t *testing.T) {
	run := func() (err error) {
		defer RecoverPanic(&err)
		panic("boom")
	}

	err := run()
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.Value != "boom" {
		t.Errorf("expected panic value boom, got %v", panicErr.Value)
	}
	if panicErr.Stacktrace == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.HasPrefix(FormatPanicForLog(panicErr), "PANIC: boom") {
		t.Errorf("unexpected log format: %q", FormatPanicForLog(panicErr))
	}
}

func TestRecoverPanic_NoPanic(t *testing.T) {
	run := func() (err error) {
		defer RecoverPanic(&err)
		return nil
	}

	if err := run(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
