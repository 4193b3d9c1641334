// Package wallpaper applies images as the GNOME desktop background.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/muaviaUsmani/gpaper/internal/config"
	apperrors "github.com/muaviaUsmani/gpaper/internal/errors"
	"github.com/muaviaUsmani/gpaper/internal/image"
	"github.com/muaviaUsmani/gpaper/internal/logger"
)

// Runner runs an external command and returns its combined output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// OSRunner runs commands with os/exec
type OSRunner struct{}

// Run implements Runner
func (OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// GSettings sets the background through `gsettings set <schema> <key> <uri>`
type GSettings struct {
	schema  string
	keys    []string
	timeout time.Duration
	runner  Runner
	log     logger.Logger
}

// NewGSettings creates a setter from the wallpaper section of the config
func NewGSettings(cfg config.WallpaperConfig) *GSettings {
	return &GSettings{
		schema:  cfg.Schema,
		keys:    append([]string(nil), cfg.Keys...),
		timeout: cfg.CommandTimeout,
		runner:  OSRunner{},
		log:     logger.Default().WithComponent(logger.ComponentWallpaper),
	}
}

// NewGSettingsWithRunner creates a setter that runs commands through runner
func NewGSettingsWithRunner(cfg config.WallpaperConfig, runner Runner) *GSettings {
	g := NewGSettings(cfg)
	g.runner = runner
	return g
}

// SetLogger sets the logger
func (g *GSettings) SetLogger(l logger.Logger) {
	g.log = l
}

// SetWallpaper sets every configured key to the image URI. The first failing
// key aborts the remaining ones.
func (g *GSettings) SetWallpaper(ctx context.Context, img image.Image) error {
	uri := img.Location().URI()

	for _, key := range g.keys {
		args := []string{"set", g.schema, key, uri}

		runCtx, cancel := context.WithTimeout(ctx, g.timeout)
		out, err := g.runner.Run(runCtx, "gsettings", args...)
		timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
		cancel()

		if err != nil {
			why := reason(err)
			if timedOut {
				why = fmt.Sprintf("timed out after %v", g.timeout)
			}
			return &apperrors.CommandError{
				Command: append([]string{"gsettings"}, args...),
				Reason:  why,
				Output:  string(out),
			}
		}

		g.log.DebugContext(ctx, "gsettings key updated",
			"schema", g.schema,
			"key", key,
			"uri", uri)
	}

	return nil
}

// reason describes why a command failed
func reason(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exit status %d", exitErr.ExitCode())
	}
	return err.Error()
}

// DryRun logs the image it would apply without touching the desktop
type DryRun struct {
	log logger.Logger
}

// NewDryRun creates a setter that only logs
func NewDryRun(l logger.Logger) *DryRun {
	if l == nil {
		l = logger.Default()
	}
	return &DryRun{log: l.WithComponent(logger.ComponentWallpaper)}
}

// SetWallpaper implements scheduler.Setter
func (d *DryRun) SetWallpaper(ctx context.Context, img image.Image) error {
	d.log.InfoContext(ctx, "Dry run: would apply wallpaper",
		"start", img.Start().String(),
		"uri", img.Location().URI())
	return nil
}
