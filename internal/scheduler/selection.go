package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/muaviaUsmani/gpaper/internal/config"
	"github.com/muaviaUsmani/gpaper/internal/daytime"
	"github.com/muaviaUsmani/gpaper/internal/image"
	"github.com/muaviaUsmani/gpaper/internal/logger"
	"github.com/muaviaUsmani/gpaper/internal/metrics"
)

// Executable is a sorted, non-empty schedule ready to be polled.
// It is not safe for concurrent use; the owner must serialise Advance calls.
type Executable struct {
	deps   *deps
	images []image.Image
	log    logger.Logger

	// selected is the cached index of the last applied entry
	selected    int
	hasSelected bool
}

// Advance applies the image that is active at the current time of day.
// A setter failure aborts the poll and leaves the cached selection unchanged.
func (e *Executable) Advance(ctx context.Context) error {
	return e.advanceAt(ctx, daytime.FromTime(e.deps.clock()))
}

func (e *Executable) advanceAt(ctx context.Context, now daytime.TimeOfDay) error {
	applied := -1

	if e.hasSelected && len(e.images) > 1 {
		last := len(e.images) - 1
		next := e.selected + 1

		switch {
		case next <= last:
			if !e.images[next].Start().After(now) {
				if err := e.apply(ctx, next, metrics.BranchNext); err != nil {
					return err
				}
				applied = next
			}
		case e.images[last].Start().After(now) && !e.images[0].Start().After(now):
			if err := e.apply(ctx, 0, metrics.BranchWraparound); err != nil {
				return err
			}
			applied = 0
		}
	}

	active := e.activeIndex(now)
	if active >= 0 {
		if active != applied {
			if err := e.apply(ctx, active, metrics.BranchScan); err != nil {
				return err
			}
		}
		e.selected, e.hasSelected = active, true
		return nil
	}

	// now is before every start: yesterday's last entry still holds
	last := len(e.images) - 1
	if last != applied {
		if err := e.apply(ctx, last, metrics.BranchFallback); err != nil {
			return err
		}
	}
	// The cache points at entry 0 even though the last entry was applied.
	e.selected, e.hasSelected = 0, true
	return nil
}

// activeIndex returns the last entry whose start is at or before now, or -1
func (e *Executable) activeIndex(now daytime.TimeOfDay) int {
	active := -1
	for i, img := range e.images {
		if img.Start().After(now) {
			break
		}
		active = i
	}
	return active
}

func (e *Executable) apply(ctx context.Context, index int, branch metrics.Branch) error {
	img := e.images[index]
	start := time.Now()

	if err := e.deps.setter.SetWallpaper(ctx, img); err != nil {
		e.deps.metrics.RecordApplyFailed(branch, time.Since(start))
		e.log.ErrorContext(ctx, "Failed to apply wallpaper",
			"index", index,
			"branch", string(branch),
			"path", img.Location().Path(),
			"error", err)
		return fmt.Errorf("image %d (%s): %w", index, img.Start(), err)
	}

	e.deps.metrics.RecordApplied(branch, index, time.Since(start))
	e.log.InfoContext(ctx, "Wallpaper applied",
		"index", index,
		"branch", string(branch),
		"start", img.Start().String(),
		"path", img.Location().Path())
	return nil
}

// Selected returns the cached index of the last selection, if any
func (e *Executable) Selected() (int, bool) {
	return e.selected, e.hasSelected
}

// Active returns the entry the full scan would pick at now, falling back to
// the last entry before the first start of the day
func (e *Executable) Active(now time.Time) (int, image.Image) {
	i := e.activeIndex(daytime.FromTime(now))
	if i < 0 {
		i = len(e.images) - 1
	}
	return i, e.images[i]
}

// Len returns the number of scheduled images
func (e *Executable) Len() int {
	return len(e.images)
}

// Images returns a copy of the sorted schedule
func (e *Executable) Images() []image.Image {
	return append([]image.Image(nil), e.images...)
}

// Config returns the configuration the scheduler was built with
func (e *Executable) Config() *config.Config {
	return e.deps.cfg
}
