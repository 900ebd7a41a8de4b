package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/doctor"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/tui"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	var configPath string
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the host environment",
		Long:  `Verify that the commands and privileges the pipeline relies on are available.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDoctor(configPath, fix)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to the pvecli config file")
	cmd.Flags().BoolVar(&fix, "fix", false, "Attempt to fix failing checks")
	return cmd
}

func runDoctor(configPath string, fix bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	checker := doctor.NewChecker(cfg)
	checks := checker.CheckAll()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, c := range checks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", renderCheckStatus(c.Status), c.Name, c.Message)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if fix {
		fixer := doctor.NewFixer()
		for _, c := range checks {
			if c.Status == doctor.StatusOK || c.FixCommand == nil {
				continue
			}
			fmt.Printf("Fixing %s: %s\n", c.Name, c.FixCommand.Description)
			if err := fixer.RunFix(c.FixCommand); err != nil {
				fmt.Println(tui.ErrorStyle.Render(err.Error()))
			}
		}
	}

	if doctor.HasIssues(checks) {
		return fmt.Errorf("environment checks failed")
	}

	summary := doctor.GetSummary(checks)
	fmt.Printf("\n%d checks, %d ok, %d warnings\n", summary.Total, summary.OK, summary.Warnings)
	return nil
}

func renderCheckStatus(s doctor.CheckStatus) string {
	switch s {
	case doctor.StatusOK:
		return tui.SuccessStyle.Render("ok")
	case doctor.StatusWarning:
		return tui.WarningStyle.Render("warn")
	case doctor.StatusMissing:
		return tui.ErrorStyle.Render("missing")
	default:
		return tui.ErrorStyle.Render("error")
	}
}
