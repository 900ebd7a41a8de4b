// Package main provides the pvecli tool for post-install configuration of
// Proxmox VE hosts.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for pvecli
func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "pvecli",
		Short: "Proxmox VE post-install configuration tool",
		Long: `pvecli automates the post-installation configuration of a Proxmox VE host:

  - disables the enterprise package repository
  - enables the no-subscription repository (deb822 on PVE 9)
  - removes the subscription nag from the web UI
  - enables the HA and cluster services
  - updates and upgrades packages

Supported releases: Proxmox VE 8.x and 9.x.`,
		Version: version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newDoctorCmd(),
	)

	return rootCmd
}

// setupLogging installs the tint slog handler as the default logger.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}
