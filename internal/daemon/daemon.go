// Package daemon owns the polling loop: it loads the configuration, builds
// the scheduler, polls it on the configured accuracy and reloads it when the
// configuration file changes.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muaviaUsmani/gpaper/internal/config"
	apperrors "github.com/muaviaUsmani/gpaper/internal/errors"
	"github.com/muaviaUsmani/gpaper/internal/image"
	"github.com/muaviaUsmani/gpaper/internal/logger"
	"github.com/muaviaUsmani/gpaper/internal/metrics"
	"github.com/muaviaUsmani/gpaper/internal/scheduler"
	"github.com/robfig/cron/v3"
)

// SetterFactory creates the wallpaper setter for a configuration
type SetterFactory func(cfg *config.Config) scheduler.Setter

// Options configures a Daemon
type Options struct {
	// ConfigPath is the YAML file to load and watch
	ConfigPath string
	// NewSetter builds the setter for each loaded configuration
	NewSetter SetterFactory
	// Resolver resolves image descriptors (default: OS filesystem and $HOME)
	Resolver *image.Resolver
	// Logger (default: logger.Default())
	Logger logger.Logger
	// Metrics (default: metrics.Default())
	Metrics *metrics.Collector
	// Clock is the wall-clock source (default: time.Now)
	Clock func() time.Time
	// ReloadDebounce delays a reload after the last file event
	ReloadDebounce time.Duration
}

// Daemon polls a scheduler on a cron schedule
type Daemon struct {
	configPath string
	newSetter  SetterFactory
	resolver   *image.Resolver
	log        logger.Logger
	metrics    *metrics.Collector
	clock      func() time.Time
	debounce   time.Duration
	instanceID string

	mu      sync.Mutex
	cfg     *config.Config
	exec    *scheduler.Executable
	cron    *cron.Cron
	entryID cron.EntryID
	spec    string
	baseCtx context.Context
}

// New loads the configuration and builds the first scheduler. Any
// construction error is returned and no daemon is created.
func New(opts Options) (*Daemon, error) {
	if opts.NewSetter == nil {
		return nil, fmt.Errorf("setter factory cannot be nil")
	}

	d := &Daemon{
		configPath: opts.ConfigPath,
		newSetter:  opts.NewSetter,
		resolver:   opts.Resolver,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		clock:      opts.Clock,
		debounce:   opts.ReloadDebounce,
		instanceID: uuid.NewString(),
	}
	if d.resolver == nil {
		d.resolver = image.NewResolver()
	}
	if d.log == nil {
		d.log = logger.Default()
	}
	d.log = d.log.WithComponent(logger.ComponentDaemon).WithFields(map[string]interface{}{
		"instance_id": d.instanceID,
	})
	if d.metrics == nil {
		d.metrics = metrics.Default()
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	if d.debounce <= 0 {
		d.debounce = 250 * time.Millisecond
	}

	cfg, err := config.Load(d.configPath)
	if err != nil {
		return nil, err
	}
	exec, err := d.build(cfg)
	if err != nil {
		return nil, err
	}
	d.cfg, d.exec = cfg, exec

	return d, nil
}

// Build resolves the configured descriptors and runs the scheduler
// construction chain with the given collaborators
func Build(cfg *config.Config, setter scheduler.Setter, resolver *image.Resolver, l logger.Logger, m *metrics.Collector, clock func() time.Time) (*scheduler.Executable, error) {
	images, err := resolver.ResolveAll(cfg.Images)
	if err != nil {
		return nil, err
	}

	empty := scheduler.New(cfg, setter)
	empty.SetLogger(l.WithComponent(logger.ComponentScheduler))
	empty.SetMetrics(m)
	empty.SetClock(clock)

	loaded, err := empty.AttachImages(images)
	if err != nil {
		return nil, err
	}
	return loaded.Check()
}

func (d *Daemon) build(cfg *config.Config) (*scheduler.Executable, error) {
	return Build(cfg, d.newSetter(cfg), d.resolver, d.log, d.metrics, d.clock)
}

// InstanceID returns the id tagged on every log line of this daemon
func (d *Daemon) InstanceID() string {
	return d.instanceID
}

// Config returns the active configuration
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Spec returns the cron expression currently driving polls, empty before Run
func (d *Daemon) Spec() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.spec
}

// Run polls once immediately, then on every cron tick, and watches the
// configuration file until ctx is cancelled
func (d *Daemon) Run(ctx context.Context) error {
	cronLog := cron.PrintfLogger(log.New(logger.NewWriter(d.log, logger.LevelWarn), "cron: ", 0))
	c := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)

	d.mu.Lock()
	d.cron = c
	d.baseCtx = ctx
	spec := d.cfg.Accuracy.CronSpec()
	err := d.scheduleLocked(spec)
	accuracy, active, count := d.cfg.Accuracy, d.cfg.IsActive, d.exec.Len()
	d.mu.Unlock()
	if err != nil {
		return err
	}

	d.log.Info("Daemon started",
		"config", d.configPath,
		"accuracy", accuracy.String(),
		"cron", spec,
		"active", active,
		"images", count)

	_ = d.Poll(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.watch(ctx)
	}()

	c.Start()
	<-ctx.Done()

	d.log.Info("Daemon stopping")
	<-c.Stop().Done()
	wg.Wait()

	m := d.metrics.GetMetrics()
	d.log.Info("Daemon stopped",
		"polls", m.TotalPolls,
		"failures", m.TotalFailures,
		"applied", m.TotalApplied,
		"reloads", m.TotalReloads,
		"uptime", m.Uptime.Round(time.Second).String())

	return nil
}

// scheduleLocked replaces the cron entry. d.mu must be held.
func (d *Daemon) scheduleLocked(spec string) error {
	if d.cron == nil {
		return nil
	}
	id, err := d.cron.AddFunc(spec, d.tick)
	if err != nil {
		return fmt.Errorf("failed to schedule polls with %q: %w", spec, err)
	}
	if d.entryID != 0 {
		d.cron.Remove(d.entryID)
	}
	d.entryID, d.spec = id, spec
	return nil
}

func (d *Daemon) tick() {
	d.mu.Lock()
	ctx := d.baseCtx
	d.mu.Unlock()

	_ = d.Poll(ctx)
}

// Poll advances the scheduler once. Inactive configurations skip the poll.
// Errors are logged and returned; the next poll runs on the same schedule.
func (d *Daemon) Poll(ctx context.Context) (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.cfg.IsActive {
		d.metrics.RecordSkipped()
		d.log.Debug("Poll skipped, daemon inactive")
		return nil
	}

	ctx = logger.WithPollID(ctx, uuid.NewString())
	start := time.Now()

	err = d.advance(ctx, d.exec)
	d.metrics.RecordPoll(err)

	if err != nil {
		var panicErr *apperrors.PanicError
		if errors.As(err, &panicErr) {
			d.log.ErrorContext(ctx, "Poll panicked",
				"error", err,
				"panic", apperrors.FormatPanicForLog(panicErr))
		} else {
			d.log.ErrorContext(ctx, "Poll failed",
				"error", err,
				"duration", time.Since(start))
		}
		return err
	}

	selected, _ := d.exec.Selected()
	d.log.DebugContext(ctx, "Poll finished",
		"selected", selected,
		"duration", time.Since(start))
	return nil
}

func (d *Daemon) advance(ctx context.Context, exec *scheduler.Executable) (err error) {
	defer apperrors.RecoverPanic(&err)
	return exec.Advance(ctx)
}

// Reload loads the configuration file again and swaps in a freshly built
// scheduler. On failure the current scheduler keeps running.
func (d *Daemon) Reload(ctx context.Context) error {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		d.log.Error("Config reload failed, keeping previous schedule", "error", err)
		return err
	}
	exec, err := d.build(cfg)
	if err != nil {
		d.log.Error("Schedule rebuild failed, keeping previous schedule", "error", err)
		return err
	}

	d.mu.Lock()
	previous := d.cfg
	if cfg.Accuracy != previous.Accuracy {
		if err := d.scheduleLocked(cfg.Accuracy.CronSpec()); err != nil {
			d.mu.Unlock()
			d.log.Error("Reschedule failed, keeping previous schedule", "error", err)
			return err
		}
	}
	d.cfg, d.exec = cfg, exec
	d.mu.Unlock()

	d.metrics.RecordReload()
	d.log.Info("Config reloaded",
		"accuracy", cfg.Accuracy.String(),
		"active", cfg.IsActive,
		"images", exec.Len())

	// The new schedule may have a different active entry
	return d.Poll(ctx)
}
