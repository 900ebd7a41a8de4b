// Package aptops wraps the APT update and upgrade operations. Both are best
// effort: dependency resolution and recovery belong to APT, not to this
// tool, so failures surface as warnings and the pipeline moves on.
package aptops

import (
	"strings"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
)

// StepID identifies updater results in a run summary.
const StepID = "update"

var nonInteractive = []string{"DEBIAN_FRONTEND=noninteractive"}

// Updater is the package update pipeline step.
type Updater struct {
	cfg  *config.Config
	exec executil.CommandExecutor
}

var _ pipeline.Step = (*Updater)(nil)

// New creates the updater.
func New(cfg *config.Config, exec executil.CommandExecutor) *Updater {
	return &Updater{cfg: cfg, exec: exec}
}

// ID implements pipeline.Step.
func (u *Updater) ID() string { return StepID }

// Title implements pipeline.Step.
func (u *Updater) Title() string { return "Updating packages" }

// Run refreshes the package index and dist-upgrades the host.
func (u *Updater) Run(_ pipeline.ProgressCallback) []pipeline.Result {
	if u.cfg.SkipUpdate {
		return []pipeline.Result{pipeline.Skipped(StepID, "package update disabled by configuration")}
	}

	return []pipeline.Result{
		u.aptGet("refreshed package index", "update"),
		u.aptGet("upgraded packages", "dist-upgrade", "-y"),
	}
}

func (u *Updater) aptGet(message string, args ...string) pipeline.Result {
	out, err := u.exec.RunEnv(nonInteractive, "apt-get", args...)
	if err != nil {
		r := pipeline.Warn(StepID, "apt-get "+args[0], err)
		if s := strings.TrimSpace(out); s != "" {
			r.Detail = s
		}
		return r
	}
	return pipeline.OK(StepID, message)
}
