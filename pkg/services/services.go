// Package services enables the HA and cluster daemons via systemd.
package services

import (
	"strings"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/config"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/executil"
	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
)

// StepID identifies service-enabler results in a run summary.
const StepID = "services"

// Enabler is the service enablement pipeline step.
type Enabler struct {
	cfg  *config.Config
	exec executil.CommandExecutor
}

var _ pipeline.Step = (*Enabler)(nil)

// New creates the enabler.
func New(cfg *config.Config, exec executil.CommandExecutor) *Enabler {
	return &Enabler{cfg: cfg, exec: exec}
}

// ID implements pipeline.Step.
func (e *Enabler) ID() string { return StepID }

// Title implements pipeline.Step.
func (e *Enabler) Title() string { return "Enabling HA services" }

// Run enables and starts each configured service. An already-active service
// is left untouched, and per-service failures are recorded as warnings so
// one stubborn unit never blocks the rest.
func (e *Enabler) Run(_ pipeline.ProgressCallback) []pipeline.Result {
	if e.cfg.SkipServices {
		return []pipeline.Result{pipeline.Skipped(StepID, "service enablement disabled by configuration")}
	}

	var results []pipeline.Result
	for _, svc := range e.cfg.Services {
		results = append(results, e.enable(svc))
	}
	return results
}

// IsActive queries systemd for the unit's active state.
func (e *Enabler) IsActive(service string) bool {
	_, err := e.exec.Run("systemctl", "is-active", "--quiet", service)
	return err == nil
}

func (e *Enabler) enable(service string) pipeline.Result {
	if e.IsActive(service) {
		return pipeline.Skipped(StepID, service+" already active")
	}

	out, err := e.exec.Run("systemctl", "enable", "--now", service)
	if err != nil {
		r := pipeline.Warn(StepID, "enabling "+service, err)
		if s := strings.TrimSpace(out); s != "" {
			r.Detail = s
		}
		return r
	}
	return pipeline.OK(StepID, "enabled and started "+service)
}
