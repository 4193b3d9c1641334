// Package scheduler builds a wallpaper schedule in three stages and decides,
// on every poll, which image should be the desktop background.
//
// Construction is a one-way chain:
//
//	Empty --AttachImages--> Loaded --Check--> Executable
//
// Every transition consumes its receiver. Calling any method on a consumed
// stage returns ErrStageConsumed, so a half-built schedule can never be used
// after it was handed to the next stage.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/muaviaUsmani/gpaper/internal/config"
	apperrors "github.com/muaviaUsmani/gpaper/internal/errors"
	"github.com/muaviaUsmani/gpaper/internal/image"
	"github.com/muaviaUsmani/gpaper/internal/logger"
	"github.com/muaviaUsmani/gpaper/internal/metrics"
)

// MaxImages is one image per minute of the day. Attaching this many or more fails.
const MaxImages = 1440

// Setter applies an image as the desktop background
type Setter interface {
	SetWallpaper(ctx context.Context, img image.Image) error
}

// deps are the collaborators carried from stage to stage
type deps struct {
	cfg     *config.Config
	setter  Setter
	clock   func() time.Time
	log     logger.Logger
	metrics *metrics.Collector
}

// Empty is a scheduler with configuration but no images
type Empty struct {
	deps     *deps
	consumed bool
}

// New creates an Empty scheduler
func New(cfg *config.Config, setter Setter) *Empty {
	return &Empty{
		deps: &deps{
			cfg:     cfg,
			setter:  setter,
			clock:   time.Now,
			log:     logger.Default().WithComponent(logger.ComponentScheduler),
			metrics: metrics.Default(),
		},
	}
}

// SetConfig replaces the configuration
func (e *Empty) SetConfig(cfg *config.Config) {
	if !e.consumed {
		e.deps.cfg = cfg
	}
}

// SetClock sets the wall-clock source (for testing)
func (e *Empty) SetClock(clock func() time.Time) {
	if !e.consumed && clock != nil {
		e.deps.clock = clock
	}
}

// SetLogger sets the logger used by the executable scheduler
func (e *Empty) SetLogger(l logger.Logger) {
	if !e.consumed && l != nil {
		e.deps.log = l
	}
}

// SetMetrics sets the collector that records applications
func (e *Empty) SetMetrics(c *metrics.Collector) {
	if !e.consumed && c != nil {
		e.deps.metrics = c
	}
}

// AttachImages stores a copy of images, unsorted, and moves to the Loaded stage.
// An empty list and a list of MaxImages or more both fail with ErrTooManyImages.
func (e *Empty) AttachImages(images []image.Image) (*Loaded, error) {
	if e.consumed {
		return nil, apperrors.ErrStageConsumed
	}
	d := e.deps
	e.deps, e.consumed = nil, true

	if len(images) == 0 || len(images) >= MaxImages {
		return nil, fmt.Errorf("%w (got %d)", apperrors.ErrTooManyImages, len(images))
	}

	return &Loaded{
		deps:   d,
		images: append([]image.Image(nil), images...),
	}, nil
}

// Loaded is a scheduler holding images that have not been sorted yet.
// The zero value holds no images.
type Loaded struct {
	deps     *deps
	images   []image.Image
	consumed bool
}

// Len returns the number of attached images
func (l *Loaded) Len() int {
	return len(l.images)
}

// Check sorts the images ascending by start time and moves to the Executable
// stage. Images sharing a start time keep their attach order.
func (l *Loaded) Check() (*Executable, error) {
	if l.consumed {
		return nil, apperrors.ErrStageConsumed
	}
	d, images := l.deps, l.images
	l.deps, l.images, l.consumed = nil, nil, true

	if len(images) == 0 {
		return nil, apperrors.ErrNoImagesLoaded
	}
	image.SortByStart(images)

	return &Executable{
		deps:   d,
		images: images,
		log:    d.log,
	}, nil
}

// Build runs the whole construction chain
func Build(cfg *config.Config, setter Setter, images []image.Image) (*Executable, error) {
	loaded, err := New(cfg, setter).AttachImages(images)
	if err != nil {
		return nil, err
	}
	return loaded.Check()
}
