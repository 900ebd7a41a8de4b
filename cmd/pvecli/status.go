package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pveversion"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/reconcile"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/tui"
)

// newStatusCmd creates the status subcommand
func newStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current repository configuration",
		Long:  `Detect the Proxmox VE release and report the state of every APT source declaration without changing anything.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runStatus(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to the pvecli config file")
	return cmd
}

func runStatus(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	exec := &executil.RealExecutor{}
	if rel, err := pveversion.Detect(exec); err == nil {
		fmt.Printf("Proxmox VE %s", rel)
		if !rel.Supported() {
			fmt.Print(tui.WarningStyle.Render("  (unsupported release)"))
		}
		fmt.Println()
	} else {
		fmt.Println(tui.WarningStyle.Render("Could not detect Proxmox VE release"))
	}

	states := reconcile.Inspect(cfg)
	if len(states) == 0 {
		fmt.Println("No APT source declarations found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tKIND\tREPOSITORY\tFILE")
	for _, s := range states {
		state := tui.SuccessStyle.Render("enabled")
		if !s.Enabled {
			state = tui.SkippedStyle.Render("disabled")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", state, s.Kind, s.Repo, s.File)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	if reconcile.HasActiveEnterprise(states) {
		fmt.Println(tui.WarningStyle.Render("Enterprise repository is still active; run 'pvecli run' to disable it."))
	}
	if !reconcile.HasActiveNoSubscription(states) {
		fmt.Println(tui.WarningStyle.Render("No active no-subscription repository found."))
	}
	return nil
}
