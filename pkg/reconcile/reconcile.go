// Package reconcile brings the host's APT source declarations into the
// desired end state: enterprise repositories disabled, the no-subscription
// repository active, and (on major 9) legacy lists migrated to deb822.
//
// Every mutation is guarded by a state check so a second run is a sequence
// of no-ops, and every touched file gets a .bak copy of its pre-mutation
// content.
package reconcile

import (
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pveversion"
)

// StepID identifies reconciler results in a run summary.
const StepID = "repos"

// Reconciler is the source-list reconciliation step.
type Reconciler struct {
	cfg *config.Config
	rel pveversion.Release
}

var _ pipeline.Step = (*Reconciler)(nil)

// New creates a reconciler for the detected release.
func New(cfg *config.Config, rel pveversion.Release) *Reconciler {
	return &Reconciler{cfg: cfg, rel: rel}
}

// ID implements pipeline.Step.
func (r *Reconciler) ID() string { return StepID }

// Title implements pipeline.Step.
func (r *Reconciler) Title() string { return "Configuring package repositories" }

// Run applies the version-specific reconciliation plan.
func (r *Reconciler) Run(_ pipeline.ProgressCallback) []pipeline.Result {
	switch r.rel.Major {
	case 8:
		return r.reconcileV8()
	case 9:
		return r.reconcileV9()
	default:
		// Require() upstream keeps this unreachable; report rather than panic.
		return []pipeline.Result{pipeline.Fatal(StepID, "no reconciliation plan for "+r.rel.String(), nil)}
	}
}
