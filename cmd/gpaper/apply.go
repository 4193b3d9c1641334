package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/muaviaUsmani/gpaper/internal/daemon"
	"github.com/muaviaUsmani/gpaper/internal/image"
	"github.com/muaviaUsmani/gpaper/internal/logger"
	"github.com/muaviaUsmani/gpaper/internal/metrics"
	"github.com/spf13/cobra"
)

func applyCmd(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the image that is active now and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}
			defer log.Close()

			exec, err := daemon.Build(cfg, newSetter(cfg, log, dryRun), image.NewResolver(), log, metrics.NewCollector(), time.Now)
			if err != nil {
				return err
			}

			ctx := logger.WithPollID(cmd.Context(), uuid.NewString())
			if err := exec.Advance(ctx); err != nil {
				return err
			}

			_, img := exec.Active(time.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s (%s)\n", img.Location(), img.Start())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log the image that would be applied instead of applying it")

	return cmd
}
