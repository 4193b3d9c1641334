package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/muaviaUsmani/gpaper/internal/daemon"
	"github.com/muaviaUsmani/gpaper/internal/image"
	"github.com/muaviaUsmani/gpaper/internal/metrics"
	"github.com/muaviaUsmani/gpaper/internal/scheduler"
	"github.com/muaviaUsmani/gpaper/internal/wallpaper"
	"github.com/spf13/cobra"
)

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the schedule",
		Long: `Check resolves every image in the configuration, sorts the schedule
and prints it, marking the entry that is active right now. Nothing is applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}
			defer log.Close()

			exec, err := daemon.Build(cfg, wallpaper.NewDryRun(log), image.NewResolver(), log, metrics.NewCollector(), time.Now)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d images, accuracy %s, active %t\n",
				opts.configPath, exec.Len(), cfg.Accuracy, cfg.IsActive)
			return printSchedule(cmd.OutOrStdout(), exec, time.Now())
		},
	}
}

// printSchedule writes one line per entry and marks the one active at now
func printSchedule(w io.Writer, exec *scheduler.Executable, now time.Time) error {
	active, _ := exec.Active(now)
	marker := color.New(color.FgGreen, color.Bold)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, img := range exec.Images() {
		mark := " "
		if i == active {
			mark = marker.Sprint("*")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", mark, i, img.Start(), img.Location())
	}
	return tw.Flush()
}
