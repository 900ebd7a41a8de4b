package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmRun prompts before the pipeline mutates the host.
func ConfirmRun(release string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Configure this Proxmox VE %s host?", release)).
				Description("APT sources will be rewritten, the subscription nag disabled,\nHA services enabled, and packages upgraded.").
				Affirmative("Yes, configure").
				Negative("No, cancel").
				Value(&confirmed),
		),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return confirmed, nil
}
