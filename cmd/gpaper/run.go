package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/muaviaUsmani/gpaper/internal/config"
	"github.com/muaviaUsmani/gpaper/internal/daemon"
	"github.com/muaviaUsmani/gpaper/internal/scheduler"
	"github.com/spf13/cobra"
)

func runCmd(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the wallpaper daemon",
		Long: `Run polls the schedule on the configured accuracy and applies the
active image. The configuration file is watched and reloaded on change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, err := setup(opts)
			if err != nil {
				return err
			}
			defer log.Close()

			lock, err := daemon.AcquireLock(daemon.DefaultLockPath())
			if err != nil {
				log.Error("Failed to acquire instance lock", "error", err)
				return err
			}
			if lock == nil {
				log.Error("Another gpaper daemon is already running", "lock", daemon.DefaultLockPath())
				return errors.New("another gpaper daemon is already running")
			}
			defer func() {
				if err := lock.Release(); err != nil {
					log.Warn("Failed to release instance lock", "error", err)
				}
			}()

			d, err := daemon.New(daemon.Options{
				ConfigPath: opts.configPath,
				NewSetter: func(cfg *config.Config) scheduler.Setter {
					return newSetter(cfg, log, dryRun)
				},
				Logger: log,
			})
			if err != nil {
				log.Error("Failed to build schedule", "config", opts.configPath, "error", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return d.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log the images that would be applied instead of applying them")

	return cmd
}
