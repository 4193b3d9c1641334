package main

import (
	"fmt"

	"github.com/muaviaUsmani/gpaper/internal/config"
	"github.com/muaviaUsmani/gpaper/internal/logger"
	"github.com/muaviaUsmani/gpaper/internal/scheduler"
	"github.com/muaviaUsmani/gpaper/internal/wallpaper"
	"github.com/spf13/cobra"
)

// options are shared by every subcommand
type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "gpaper",
		Short: "Change the GNOME wallpaper on a daily schedule",
		Long: `gpaper changes the GNOME desktop background at the times of day
listed in its configuration file. Each image becomes active at its start
time and stays active until the next image's start, wrapping around midnight.
`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(
		&opts.configPath, "config", config.DefaultPath(),
		"config file",
	)

	rootCmd.AddCommand(runCmd(opts))
	rootCmd.AddCommand(checkCmd(opts))
	rootCmd.AddCommand(applyCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// setup loads the configuration and installs the logger it describes as the default
func setup(opts *options) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)

	return cfg, log, nil
}

// newSetter picks the gsettings setter or a logging stand-in
func newSetter(cfg *config.Config, log logger.Logger, dryRun bool) scheduler.Setter {
	if dryRun {
		return wallpaper.NewDryRun(log)
	}
	return wallpaper.NewGSettings(cfg.Wallpaper)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the gpaper version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
