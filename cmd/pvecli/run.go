package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/aptops"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/nag"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pveversion"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/reconcile"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/services"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/tui"
)

// runFlags holds the flag values of the run subcommand.
type runFlags struct {
	yes          bool
	dryRun       bool
	skipUpdate   bool
	skipServices bool
	configPath   string
	envFile      string
}

// newRunCmd creates the run subcommand
func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full post-install pipeline",
		Long: `Detect the Proxmox VE release, reconcile the APT repositories, install the
nag-suppression hook, enable the HA services, and upgrade packages.

Individual steps after version detection are best-effort: a failing step is
reported as a warning and the pipeline continues. The exit code is 0 unless
the detected release is unsupported.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPipeline(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report intended changes without touching anything")
	cmd.Flags().BoolVar(&flags.skipUpdate, "skip-update", false, "Skip the package update/upgrade step")
	cmd.Flags().BoolVar(&flags.skipServices, "skip-services", false, "Skip enabling HA services")
	cmd.Flags().StringVar(&flags.configPath, "config", config.DefaultPath, "Path to the pvecli config file")
	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "Env file with PVECLI_* overrides")

	return cmd
}

func loadConfig(flags runFlags) (*config.Config, error) {
	if flags.envFile != "" {
		if err := config.LoadEnvFile(flags.envFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.skipUpdate {
		cfg.SkipUpdate = true
	}
	if flags.skipServices {
		cfg.SkipServices = true
	}
	return cfg, nil
}

func runPipeline(flags runFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	exec := &executil.RealExecutor{}

	// The only fatal failure: nothing is mutated past this point on error.
	rel, err := pveversion.Require(exec)
	if err != nil {
		return err
	}
	slog.Info("detected Proxmox VE release", "release", rel.String())

	if flags.dryRun {
		return printPlan(cfg, rel)
	}

	if !flags.yes {
		confirmed, err := tui.ConfirmRun(rel.String())
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled, nothing was changed.")
			return nil
		}
	}

	steps := []pipeline.Step{
		reconcile.New(cfg, rel),
		nag.New(cfg, exec),
		services.New(cfg, exec),
		aptops.New(cfg, exec),
	}

	var summary *pipeline.Summary
	if interactiveTerminal() {
		summary, err = tui.RunPipeline(steps)
		if err != nil {
			return err
		}
	} else {
		runner := pipeline.NewRunner(steps, tui.PlainProgress(os.Stdout))
		summary = runner.Run()
	}

	tui.PrintSummary(os.Stdout, summary)

	if summary.Aborted {
		return fmt.Errorf("pipeline aborted")
	}
	return nil
}

// printPlan describes what a run would do, without mutating anything.
func printPlan(cfg *config.Config, rel pveversion.Release) error {
	fmt.Printf("Proxmox VE %s host, planned changes:\n\n", rel)

	switch rel.Major {
	case 8:
		fmt.Printf("  - overwrite %s with %s mirrors\n", cfg.SourcesList, cfg.Suite(8))
		fmt.Printf("  - write firmware warning quirk under %s\n", cfg.AptConfDir)
		fmt.Println("  - comment out enterprise repository lines (.bak backups)")
		fmt.Println("  - ensure an active no-subscription list")
		fmt.Println("  - write commented ceph repository references")
	case 9:
		fmt.Println("  - retire legacy .list files (.bak backups)")
		if cfg.MigrateToDeb822 {
			fmt.Printf("  - write consolidated deb822 Debian sources for %s\n", cfg.Suite(9))
		}
		fmt.Println("  - disable enterprise stanzas per logical stanza")
		fmt.Println("  - ensure an active no-subscription stanza")
	}
	fmt.Printf("  - install nag patch script at %s and APT hook at %s\n", cfg.NagScriptPath, cfg.NagHookPath)
	if !cfg.SkipServices {
		fmt.Printf("  - enable services: %v\n", cfg.Services)
	}
	if !cfg.SkipUpdate {
		fmt.Println("  - apt-get update && apt-get dist-upgrade -y")
	}

	states := reconcile.Inspect(cfg)
	fmt.Printf("\nCurrent repositories: %d declared", len(states))
	if reconcile.HasActiveEnterprise(states) {
		fmt.Print(", enterprise ACTIVE")
	}
	if reconcile.HasActiveNoSubscription(states) {
		fmt.Print(", no-subscription active")
	}
	fmt.Println()
	return nil
}

// interactiveTerminal reports whether stdout is a terminal.
func interactiveTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
